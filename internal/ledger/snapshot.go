// Package ledger computes net balances and settlement plans from a snapshot
// of shared-expense records.
//
// The pipeline is pure and stateless:
//
//	ResolveScope -> Aggregate -> Partition -> Match -> Format
//
// Every call recomputes from the snapshot it is given. Nothing here performs
// I/O; the Engine type only asks its Source for a snapshot and then runs the
// pipeline in memory.
package ledger

import "github.com/shopspring/decimal"

// UnknownName is the display name used for participant ids that have no
// name in the snapshot.
const UnknownName = "Unknown"

// Tolerance is the absolute amount under which a balance counts as settled.
var Tolerance = decimal.New(1, -2)

// Participation links a user to a project.
// Inactive participations are kept so historical debts stay attributable.
type Participation struct {
	ProjectID string
	UserID    string
	Active    bool
}

// Item is one line of a purchase.
type Item struct {
	ID       string
	Price    decimal.Decimal
	Quantity int
	Discount decimal.Decimal

	// Contributors share the item cost equally. An item without
	// contributors affects nobody's balance.
	Contributors []string
}

// Total returns price × quantity − discount.
func (it Item) Total() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount)
}

// Purchase is a set of items paid for by a single payer inside a project.
type Purchase struct {
	ID        string
	ProjectID string
	PayerID   string
	Items     []Item
}

// Payment is a direct reimbursement from payer to receiver.
type Payment struct {
	ID         string
	ProjectID  string
	PayerID    string
	ReceiverID string
	Amount     decimal.Decimal
}

// Snapshot is a read-only copy of the ledger rows needed to answer one query.
type Snapshot struct {
	Participations []Participation
	Purchases      []Purchase
	Payments       []Payment

	// Names maps user ids to display names. Anonymized users keep an entry
	// with their anonymized name.
	Names map[string]string
}

// IsActiveParticipant reports whether userID currently participates in projectID.
func (s *Snapshot) IsActiveParticipant(projectID, userID string) bool {
	for _, p := range s.Participations {
		if p.ProjectID == projectID && p.UserID == userID {
			return p.Active
		}
	}
	return false
}

// DisplayName resolves a user id, falling back to UnknownName.
func (s *Snapshot) DisplayName(userID string) string {
	if name, ok := s.Names[userID]; ok && name != "" {
		return name
	}
	return UnknownName
}

// activeProjects returns the set of projects userID is active in.
func (s *Snapshot) activeProjects(userID string) map[string]bool {
	projects := make(map[string]bool)
	for _, p := range s.Participations {
		if p.UserID == userID && p.Active {
			projects[p.ProjectID] = true
		}
	}
	return projects
}
