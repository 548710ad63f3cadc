package ledger

import "github.com/shopspring/decimal"

// Transfer is one settlement step: From pays Amount to To.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// Match pairs debtors with creditors using a two-pointer greedy walk over
// lists already sorted by Partition.
//
// Each step settles min(debtor remaining, creditor remaining). The emitted
// amount is rounded to cents but the unrounded amount is subtracted, so the
// walk tracks the true positions. A side advances once its remainder drops
// below Tolerance; both may advance on the same step. The result holds at
// most len(debtors)+len(creditors)-1 transfers. It is not guaranteed to be
// the smallest possible set.
func Match(debtors, creditors []Position) []Transfer {
	debtorLeft := make([]decimal.Decimal, len(debtors))
	for i, d := range debtors {
		debtorLeft[i] = d.Amount
	}
	creditorLeft := make([]decimal.Decimal, len(creditors))
	for j, c := range creditors {
		creditorLeft[j] = c.Amount
	}

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtorLeft[i], creditorLeft[j])

		transfers = append(transfers, Transfer{
			From:   debtors[i].UserID,
			To:     creditors[j].UserID,
			Amount: amount.Round(2),
		})

		debtorLeft[i] = debtorLeft[i].Sub(amount)
		creditorLeft[j] = creditorLeft[j].Sub(amount)

		if debtorLeft[i].LessThan(Tolerance) {
			i++
		}
		if creditorLeft[j].LessThan(Tolerance) {
			j++
		}
	}

	return transfers
}
