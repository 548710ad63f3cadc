package ledger

import "github.com/shopspring/decimal"

// Transaction is a Transfer rendered for presentation.
type Transaction struct {
	FromID   string
	FromName string
	ToID     string
	ToName   string
	Amount   decimal.Decimal
}

// Involves reports whether userID sends or receives t.
func (t Transaction) Involves(userID string) bool {
	return t.FromID == userID || t.ToID == userID
}

// NameResolver resolves a user id to a display name.
// It must return a placeholder rather than fail for unknown ids.
type NameResolver interface {
	DisplayName(userID string) string
}

// Format attaches display names to transfers and rounds amounts to cents.
//
// If filterUserID is set, only transfers involving that user are kept. The
// filter runs on the complete settlement so the amounts a user sees always
// agree with the settlement of the whole scope.
func Format(transfers []Transfer, names NameResolver, filterUserID string) []Transaction {
	txs := make([]Transaction, 0, len(transfers))
	for _, tr := range transfers {
		tx := Transaction{
			FromID:   tr.From,
			FromName: names.DisplayName(tr.From),
			ToID:     tr.To,
			ToName:   names.DisplayName(tr.To),
			Amount:   tr.Amount.Round(2),
		}
		if filterUserID != "" && !tx.Involves(filterUserID) {
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}
