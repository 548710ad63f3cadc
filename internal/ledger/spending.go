package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PayerSpending is the amount one payer laid out for purchases.
type PayerSpending struct {
	UserID string
	Name   string
	Amount decimal.Decimal
}

// Stats summarizes purchase spending over a scope.
type Stats struct {
	Total   decimal.Decimal
	ByPayer []PayerSpending
}

// Spending sums item totals of recs, overall and per payer. Items without
// contributors still count: they were paid for even if nobody shares them.
// Direct payments are transfers, not spending, and are ignored.
func Spending(recs Records, names NameResolver) Stats {
	total := decimal.Zero
	perPayer := make(map[string]decimal.Decimal)
	for _, c := range recs.Charges {
		total = total.Add(c.Total)
		perPayer[c.PayerID] = perPayer[c.PayerID].Add(c.Total)
	}

	stats := Stats{Total: total}
	for userID, amount := range perPayer {
		stats.ByPayer = append(stats.ByPayer, PayerSpending{
			UserID: userID,
			Name:   names.DisplayName(userID),
			Amount: amount,
		})
	}
	sort.Slice(stats.ByPayer, func(i, j int) bool {
		if c := stats.ByPayer[i].Amount.Cmp(stats.ByPayer[j].Amount); c != 0 {
			return c > 0
		}
		return stats.ByPayer[i].UserID < stats.ByPayer[j].UserID
	})
	return stats
}
