package models

import "github.com/shopspring/decimal"

// Payment is a direct reimbursement between two participants of a project.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// ProjectID is the project the payment belongs to.
	ProjectID string

	// PayerID is the user who sent the money.
	PayerID string

	// ReceiverID is the user who received the money.
	ReceiverID string

	// Amount is the positive amount transferred.
	Amount decimal.Decimal

	// CreatedBy is the user ID who recorded this payment.
	CreatedBy string

	// Note is an optional description for the payment.
	Note string

	// PaidOn is the payment date (YYYY-MM-DD).
	PaidOn string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}

// Involves reports whether userID sent or received the payment.
func (p *Payment) Involves(userID string) bool {
	return p.PayerID == userID || p.ReceiverID == userID
}
