package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Position is an unsigned amount held by one participant, either owed
// (debtor) or due (creditor).
type Position struct {
	UserID string
	Amount decimal.Decimal
}

// Partition splits balances into debtors and creditors.
//
// Balances below -Tolerance become debtors carrying their absolute value,
// balances above +Tolerance become creditors. Anything in between counts as
// settled and is dropped. Both lists are ordered by descending amount, ties
// broken by user id.
func Partition(balances Balances) (debtors, creditors []Position) {
	for userID, amount := range balances {
		switch {
		case amount.LessThan(Tolerance.Neg()):
			debtors = append(debtors, Position{UserID: userID, Amount: amount.Abs()})
		case amount.GreaterThan(Tolerance):
			creditors = append(creditors, Position{UserID: userID, Amount: amount})
		}
	}

	sortPositions(debtors)
	sortPositions(creditors)
	return debtors, creditors
}

func sortPositions(positions []Position) {
	sort.Slice(positions, func(i, j int) bool {
		if c := positions[i].Amount.Cmp(positions[j].Amount); c != 0 {
			return c > 0
		}
		return positions[i].UserID < positions[j].UserID
	})
}
