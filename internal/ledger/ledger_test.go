package ledger

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// requireAmount compares decimals within Tolerance.
func requireAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	diff := got.Sub(d(want)).Abs()
	require.Truef(t, diff.LessThanOrEqual(Tolerance), "want %s, got %s %v", want, got, msgAndArgs)
}

func item(price string, contributors ...string) Item {
	return Item{Price: d(price), Quantity: 1, Discount: decimal.Zero, Contributors: contributors}
}

func twoPersonSnapshot() *Snapshot {
	return &Snapshot{
		Participations: []Participation{
			{ProjectID: "p1", UserID: "A", Active: true},
			{ProjectID: "p1", UserID: "B", Active: true},
		},
		Names: map[string]string{"A": "Alice", "B": "Bob"},
	}
}

func TestScenarios(t *testing.T) {
	snap := twoPersonSnapshot()

	t.Run("A buys for B", func(t *testing.T) {
		snap.Purchases = append(snap.Purchases, Purchase{ID: "u1", ProjectID: "p1", PayerID: "A", Items: []Item{item("11.00", "B")}})

		res := Compute(snap, Query{ViewerID: "A", ProjectID: "p1"})
		require.True(t, res.Authorized)
		requireAmount(t, "11.00", res.Balances.Get("A"))
		requireAmount(t, "-11.00", res.Balances.Get("B"))
	})

	t.Run("B buys for A", func(t *testing.T) {
		snap.Purchases = append(snap.Purchases, Purchase{ID: "u2", ProjectID: "p1", PayerID: "B", Items: []Item{item("10.00", "A")}})

		res := Compute(snap, Query{ViewerID: "A", ProjectID: "p1"})
		requireAmount(t, "1.00", res.Balances.Get("A"))
		requireAmount(t, "-1.00", res.Balances.Get("B"))
		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "B", res.Transactions[0].FromID)
		assert.Equal(t, "Bob", res.Transactions[0].FromName)
		assert.Equal(t, "A", res.Transactions[0].ToID)
		assert.Equal(t, "Alice", res.Transactions[0].ToName)
		requireAmount(t, "1.00", res.Transactions[0].Amount)
	})

	t.Run("B pays A directly", func(t *testing.T) {
		snap.Payments = append(snap.Payments, Payment{ID: "m1", ProjectID: "p1", PayerID: "B", ReceiverID: "A", Amount: d("5.00")})

		// The payer is credited and the receiver debited, so B overshoots
		// and A now owes the difference.
		res := Compute(snap, Query{ViewerID: "B", ProjectID: "p1"})
		requireAmount(t, "-4.00", res.Balances.Get("A"))
		requireAmount(t, "4.00", res.Balances.Get("B"))
		require.Len(t, res.Transactions, 1)
		assert.Equal(t, "A", res.Transactions[0].FromID)
		assert.Equal(t, "B", res.Transactions[0].ToID)
		assert.True(t, d("4.00").Equal(res.Transactions[0].Amount))
	})
}

func TestMatch_TwoByTwo(t *testing.T) {
	balances := Balances{
		"d30": d("-30"),
		"d10": d("-10"),
		"c25": d("25"),
		"c15": d("15"),
	}
	debtors, creditors := Partition(balances)
	transfers := Match(debtors, creditors)

	require.Len(t, transfers, 3)
	want := []Transfer{
		{From: "d30", To: "c25", Amount: d("25")},
		{From: "d30", To: "c15", Amount: d("5")},
		{From: "d10", To: "c15", Amount: d("10")},
	}
	for i, w := range want {
		assert.Equal(t, w.From, transfers[i].From, "transfer %d", i)
		assert.Equal(t, w.To, transfers[i].To, "transfer %d", i)
		assert.True(t, w.Amount.Equal(transfers[i].Amount), "transfer %d amount %s", i, transfers[i].Amount)
	}
	assertSettles(t, balances, transfers)
}

func TestDepartedParticipantStillVisible(t *testing.T) {
	snap := &Snapshot{
		Participations: []Participation{
			{ProjectID: "p1", UserID: "A", Active: true},
			{ProjectID: "p1", UserID: "C", Active: false},
		},
		Purchases: []Purchase{
			{ID: "u1", ProjectID: "p1", PayerID: "A", Items: []Item{item("8.00", "C")}},
		},
		Names: map[string]string{"A": "Alice", "C": "Former member 1234"},
	}

	res := Compute(snap, Query{ViewerID: "A", ProjectID: "p1"})
	require.True(t, res.Authorized)
	requireAmount(t, "-8.00", res.Balances.Get("C"))
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "C", res.Transactions[0].FromID)
	assert.Equal(t, "Former member 1234", res.Transactions[0].FromName)
	requireAmount(t, "8.00", res.Transactions[0].Amount)

	outsider := Compute(snap, Query{ViewerID: "X", ProjectID: "p1"})
	assert.False(t, outsider.Authorized)
	assert.Empty(t, outsider.Transactions)
	assert.Empty(t, outsider.Balances)

	departed := Compute(snap, Query{ViewerID: "C", ProjectID: "p1"})
	assert.False(t, departed.Authorized)
	assert.Empty(t, departed.Transactions)
}

func TestResolveScope_Global(t *testing.T) {
	snap := &Snapshot{
		Participations: []Participation{
			{ProjectID: "p1", UserID: "A", Active: true},
			{ProjectID: "p2", UserID: "A", Active: false},
			{ProjectID: "p2", UserID: "B", Active: true},
			{ProjectID: "p3", UserID: "B", Active: true},
		},
		Purchases: []Purchase{
			{ID: "u1", ProjectID: "p1", PayerID: "A", Items: []Item{item("10", "B")}},
			{ID: "u2", ProjectID: "p2", PayerID: "B", Items: []Item{item("99", "A")}},
			{ID: "u3", ProjectID: "p3", PayerID: "B", Items: []Item{item("7", "A")}},
		},
		Payments: []Payment{
			{ID: "m1", ProjectID: "p1", PayerID: "B", ReceiverID: "A", Amount: d("3")},
			{ID: "m2", ProjectID: "p2", PayerID: "A", ReceiverID: "B", Amount: d("50")},
		},
	}

	recs := ResolveScope(snap, "A", "")
	require.True(t, recs.Authorized)
	require.Len(t, recs.Charges, 1)
	assert.Equal(t, "u1", recs.Charges[0].PurchaseID)
	require.Len(t, recs.Payments, 1)
	assert.Equal(t, "m1", recs.Payments[0].ID)

	recs = ResolveScope(snap, "B", "")
	assert.Len(t, recs.Charges, 2)
	assert.Len(t, recs.Payments, 1)

	recs = ResolveScope(snap, "A", "p2")
	assert.False(t, recs.Authorized)
	assert.Empty(t, recs.Charges)
	assert.Empty(t, recs.Payments)

	recs = ResolveScope(snap, "nobody", "")
	assert.True(t, recs.Authorized)
	assert.Empty(t, recs.Charges)
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		recs Records
		want map[string]string
	}{
		{
			name: "equal split among three",
			recs: Records{Charges: []Charge{
				{PayerID: "A", Total: d("30"), Contributors: []string{"A", "B", "C"}},
			}},
			want: map[string]string{"A": "20", "B": "-10", "C": "-10"},
		},
		{
			name: "zero contributors are skipped",
			recs: Records{Charges: []Charge{
				{PayerID: "A", Total: d("30")},
			}},
			want: map[string]string{},
		},
		{
			name: "payment credits payer and debits receiver",
			recs: Records{Payments: []Payment{
				{PayerID: "A", ReceiverID: "B", Amount: d("12.50")},
			}},
			want: map[string]string{"A": "12.50", "B": "-12.50"},
		},
		{
			name: "thirds leave no residue beyond tolerance",
			recs: Records{Charges: []Charge{
				{PayerID: "A", Total: d("10"), Contributors: []string{"B", "C", "D"}},
			}},
			want: map[string]string{"A": "10", "B": "-3.33", "C": "-3.33", "D": "-3.33"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.recs)
			require.Len(t, got, len(tt.want))
			for user, want := range tt.want {
				requireAmount(t, want, got.Get(user), user)
			}
			requireAmount(t, "0", got.Sum())
		})
	}
}

func TestItemTotal(t *testing.T) {
	it := Item{Price: d("2.50"), Quantity: 4, Discount: d("1.25")}
	assert.True(t, d("8.75").Equal(it.Total()))
}

func TestPartition(t *testing.T) {
	debtors, creditors := Partition(Balances{
		"a": d("-5"),
		"b": d("-5"),
		"c": d("0.01"),
		"d": d("-0.01"),
		"e": d("0.004"),
		"f": d("10"),
	})

	require.Len(t, debtors, 2)
	assert.Equal(t, "a", debtors[0].UserID)
	assert.Equal(t, "b", debtors[1].UserID)
	assert.True(t, d("5").Equal(debtors[0].Amount))

	require.Len(t, creditors, 1)
	assert.Equal(t, "f", creditors[0].UserID)
}

func TestFormat_Filter(t *testing.T) {
	balances := Balances{"A": d("-40"), "B": d("-20"), "C": d("35"), "D": d("25")}
	debtors, creditors := Partition(balances)
	transfers := Match(debtors, creditors)
	names := &Snapshot{Names: map[string]string{"A": "Alice", "C": "Carol"}}

	all := Format(transfers, names, "")
	mine := Format(transfers, names, "B")

	require.Len(t, mine, 1)
	for _, tx := range mine {
		assert.True(t, tx.Involves("B"))
		found := false
		for _, full := range all {
			if sameTransaction(full, tx) {
				found = true
			}
		}
		assert.True(t, found, "filtered transaction %+v not in full settlement", tx)
	}
	assert.Equal(t, "D", mine[0].ToID)
	requireAmount(t, "20", mine[0].Amount)

	for _, tx := range all {
		if tx.ToID == "D" {
			assert.Equal(t, UnknownName, tx.ToName)
		}
	}
}

func TestConservationAndSettlement_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6"}

	for round := 0; round < 200; round++ {
		var recs Records
		for n := rng.Intn(12); n >= 0; n-- {
			var contributors []string
			for _, u := range users {
				if rng.Intn(2) == 0 {
					contributors = append(contributors, u)
				}
			}
			recs.Charges = append(recs.Charges, Charge{
				PayerID:      users[rng.Intn(len(users))],
				Total:        decimal.New(int64(rng.Intn(100000)), -2),
				Contributors: contributors,
			})
		}
		for n := rng.Intn(4); n > 0; n-- {
			recs.Payments = append(recs.Payments, Payment{
				PayerID:    users[rng.Intn(len(users))],
				ReceiverID: users[rng.Intn(len(users))],
				Amount:     decimal.New(int64(rng.Intn(5000)+1), -2),
			})
		}

		balances := Aggregate(recs)
		requireAmount(t, "0", balances.Sum(), "round", round)

		debtors, creditors := Partition(balances)
		transfers := Match(debtors, creditors)
		if len(debtors)+len(creditors) > 0 {
			assert.LessOrEqual(t, len(transfers), len(debtors)+len(creditors)-1)
		}
		assertSettles(t, balances, transfers)
	}
}

// assertSettles applies transfers to balances and checks that every
// participant ends up within a few cents of zero.
func assertSettles(t *testing.T, balances Balances, transfers []Transfer) {
	t.Helper()
	after := make(Balances, len(balances))
	for k, v := range balances {
		after[k] = v
	}
	for _, tr := range transfers {
		require.True(t, tr.Amount.IsPositive(), "transfer amount must be positive: %+v", tr)
		after.add(tr.From, tr.Amount)
		after.add(tr.To, tr.Amount.Neg())
	}
	// Balances dropped as settled may leave up to a cent each unmatched, and
	// each emitted amount is rounded to cents.
	limit := Tolerance.Mul(decimal.NewFromInt(int64(len(balances) + 1))).
		Add(decimal.New(5, -3).Mul(decimal.NewFromInt(int64(len(transfers)))))
	for user, v := range after {
		assert.Truef(t, v.Abs().LessThanOrEqual(limit), "%s left with %s", user, v)
	}
}

func sameTransaction(a, b Transaction) bool {
	return a.FromID == b.FromID && a.ToID == b.ToID &&
		a.FromName == b.FromName && a.ToName == b.ToName &&
		a.Amount.Equal(b.Amount)
}

type stubSource struct {
	snap *Snapshot
	err  error
}

func (s stubSource) LedgerSnapshot(context.Context, string, string) (*Snapshot, error) {
	return s.snap, s.err
}

func TestEngine(t *testing.T) {
	snap := twoPersonSnapshot()
	snap.Purchases = []Purchase{
		{ID: "u1", ProjectID: "p1", PayerID: "A", Items: []Item{item("20", "A", "B")}},
	}
	engine := NewEngine(stubSource{snap: snap})
	ctx := context.Background()

	txs, err := engine.ComputeBalances(ctx, "A", "p1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "B", txs[0].FromID)
	requireAmount(t, "10", txs[0].Amount)

	mine, err := engine.PersonalBalances(ctx, "B", "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, sameTransaction(txs[0], mine[0]))

	none, err := engine.PersonalBalances(ctx, "C", "")
	require.NoError(t, err)
	assert.Empty(t, none)

	stats, ok, err := engine.Spending(ctx, "A", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	requireAmount(t, "20", stats.Total)
	require.Len(t, stats.ByPayer, 1)
	assert.Equal(t, "Alice", stats.ByPayer[0].Name)

	_, ok, err = engine.Spending(ctx, "X", "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	failing := NewEngine(stubSource{err: errors.New("disk on fire")})
	_, err = failing.ComputeBalances(ctx, "A", "p1")
	require.Error(t, err)
}
