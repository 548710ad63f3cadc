package ledger

import "github.com/shopspring/decimal"

// Balances maps a user id to a signed net position.
// Positive means the user is owed money, negative means the user owes money.
type Balances map[string]decimal.Decimal

func (b Balances) add(userID string, amount decimal.Decimal) {
	b[userID] = b[userID].Add(amount)
}

// Sum returns the sum of all positions. It is zero, within Tolerance, for
// any fully enumerated scope.
func (b Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range b {
		sum = sum.Add(v)
	}
	return sum
}

// Get returns the position of userID, zero if the user never appeared.
func (b Balances) Get(userID string) decimal.Decimal {
	return b[userID]
}

// Aggregate walks the charges and payments of recs and returns one net
// position per participant.
//
// A charge credits its payer with the full item total and debits each
// contributor an equal share. A payer who is also a contributor gets both.
// Charges without contributors are skipped. A payment credits the payer and
// debits the receiver.
func Aggregate(recs Records) Balances {
	balances := make(Balances)

	for _, c := range recs.Charges {
		if len(c.Contributors) == 0 {
			continue
		}
		balances.add(c.PayerID, c.Total)

		share := c.Total.Div(decimal.NewFromInt(int64(len(c.Contributors))))
		for _, contributor := range c.Contributors {
			balances.add(contributor, share.Neg())
		}
	}

	for _, p := range recs.Payments {
		balances.add(p.PayerID, p.Amount)
		balances.add(p.ReceiverID, p.Amount.Neg())
	}

	return balances
}
