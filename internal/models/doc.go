// Package models defines the core domain models for Splitledger.
//
// # Models
//
//   - User: a registered participant. Users referenced by ledger rows are
//     never hard-deleted; they are anonymized in place.
//   - Project: a collaborative scope that owns purchases and payments.
//   - Participant: a user's membership in a project. Membership is
//     soft-revocable so that historical debts stay attributable.
//   - Purchase / Item: a shared purchase with line items, each item split
//     equally among its contributors.
//   - Payment: a direct reimbursement between two participants.
//
// # Design Principles
//
//  1. Money is decimal.Decimal, never float64, inside the backend.
//  2. Relationships use ID strings instead of pointers.
//  3. Balances are never stored; they are recomputed by the ledger package.
package models
