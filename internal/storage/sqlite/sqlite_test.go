package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, name string) *models.User {
	t.Helper()
	user := models.NewUser(name, "hash-"+name)
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")

	t.Run("GetUserByName and GetUserByID round trip", func(t *testing.T) {
		byName, err := store.GetUserByName(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byName.ID)
		assert.True(t, byName.Active)

		byID, err := store.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Name)
		assert.Equal(t, "hash-alice", byID.PasswordHash)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice", "x"))
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetUserByName(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetUsersByIDs skips unknown ids", func(t *testing.T) {
		bob := createUser(t, store, "bob")
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, bob.ID, "ghost"})
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "bob", users[bob.ID].Name)

		empty, err := store.GetUsersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestProjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")

	project := &models.Project{
		Name:         "Flat",
		CreatedBy:    alice.ID,
		Participants: []models.Participant{{UserID: bob.ID}},
	}
	require.NoError(t, store.CreateProject(ctx, project))
	require.NotEmpty(t, project.ID)

	t.Run("creator and listed participants are active", func(t *testing.T) {
		got, err := store.GetProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flat", got.Name)
		assert.Equal(t, alice.ID, got.CreatedBy)
		assert.Equal(t, 2, got.ActiveCount())
		assert.True(t, got.IsActiveParticipant(alice.ID))
		assert.True(t, got.IsActiveParticipant(bob.ID))
		assert.False(t, got.IsActiveParticipant(carol.ID))
	})

	t.Run("soft removal and reactivation", func(t *testing.T) {
		require.NoError(t, store.AddParticipant(ctx, project.ID, carol.ID))
		require.NoError(t, store.RemoveParticipant(ctx, project.ID, carol.ID))

		got, err := store.GetProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Len(t, got.Participants, 3)
		assert.False(t, got.IsActiveParticipant(carol.ID))

		listed, err := store.ListProjectsForUser(ctx, carol.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)

		require.NoError(t, store.AddParticipant(ctx, project.ID, carol.ID))
		got, err = store.GetProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Len(t, got.Participants, 3)
		assert.True(t, got.IsActiveParticipant(carol.ID))
	})

	t.Run("UpdateProject renames without touching participants", func(t *testing.T) {
		update := &models.Project{ID: project.ID, Name: "Flat 2B", Description: "second floor"}
		require.NoError(t, store.UpdateProject(ctx, update))

		got, err := store.GetProject(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flat 2B", got.Name)
		assert.Equal(t, "second floor", got.Description)
		assert.Equal(t, alice.ID, got.CreatedBy)
		assert.Equal(t, project.CreatedAt, got.CreatedAt)
		assert.Len(t, got.Participants, 3)

		err = store.UpdateProject(ctx, &models.Project{ID: "missing", Name: "x"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("removing a non-member is not found", func(t *testing.T) {
		dave := createUser(t, store, "dave")
		err := store.RemoveParticipant(ctx, project.ID, dave.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListProjectsForUser", func(t *testing.T) {
		other := &models.Project{Name: "Trip", CreatedBy: bob.ID}
		require.NoError(t, store.CreateProject(ctx, other))

		projects, err := store.ListProjectsForUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, projects, 2)

		projects, err = store.ListProjectsForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, project.ID, projects[0].ID)
	})

	t.Run("DeleteProject cascades", func(t *testing.T) {
		doomed := &models.Project{Name: "Doomed", CreatedBy: alice.ID}
		require.NoError(t, store.CreateProject(ctx, doomed))
		purchase := &models.Purchase{
			ProjectID: doomed.ID, PayerID: alice.ID, CreatorID: alice.ID, Name: "Shop",
			Items: []models.Item{{Name: "x", Price: money("1"), Quantity: 1, Contributors: []string{alice.ID}}},
		}
		require.NoError(t, store.CreatePurchase(ctx, purchase))

		require.NoError(t, store.DeleteProject(ctx, doomed.ID))
		_, err := store.GetProject(ctx, doomed.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = store.GetPurchase(ctx, purchase.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		assert.ErrorIs(t, store.DeleteProject(ctx, doomed.ID), storage.ErrNotFound)
	})
}

func TestPurchases(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	project := &models.Project{Name: "Flat", CreatedBy: alice.ID, Participants: []models.Participant{{UserID: bob.ID}}}
	require.NoError(t, store.CreateProject(ctx, project))

	purchase := &models.Purchase{
		ProjectID:   project.ID,
		PayerID:     alice.ID,
		CreatorID:   bob.ID,
		Name:        "Groceries",
		PurchasedOn: "2024-03-01",
		Items: []models.Item{
			{Name: "Milk", Price: money("1.25"), Quantity: 4, Discount: money("0.50"), Contributors: []string{alice.ID, bob.ID}},
			{Name: "Wine", Price: money("12.99"), Quantity: 1, Discount: decimal.Zero, Contributors: []string{bob.ID}},
			{Name: "Bag", Price: money("0.10"), Quantity: 1, Discount: decimal.Zero},
		},
	}
	require.NoError(t, store.CreatePurchase(ctx, purchase))

	t.Run("GetPurchase keeps item order and exact amounts", func(t *testing.T) {
		got, err := store.GetPurchase(ctx, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got.Name)
		assert.Equal(t, "2024-03-01", got.PurchasedOn)
		assert.Equal(t, bob.ID, got.CreatorID)
		require.Len(t, got.Items, 3)

		assert.Equal(t, "Milk", got.Items[0].Name)
		assert.True(t, got.Items[0].Price.Equal(money("1.25")))
		assert.True(t, got.Items[0].Discount.Equal(money("0.5")))
		assert.Equal(t, 4, got.Items[0].Quantity)
		assert.ElementsMatch(t, []string{alice.ID, bob.ID}, got.Items[0].Contributors)

		assert.Equal(t, []string{bob.ID}, got.Items[1].Contributors)
		assert.Empty(t, got.Items[2].Contributors)

		assert.True(t, got.Total().Equal(money("17.59")), "total %s", got.Total())
	})

	t.Run("ListPurchasesByProject", func(t *testing.T) {
		second := &models.Purchase{ProjectID: project.ID, PayerID: bob.ID, CreatorID: bob.ID, Name: "Later", PurchasedOn: "2024-04-01"}
		require.NoError(t, store.CreatePurchase(ctx, second))

		purchases, err := store.ListPurchasesByProject(ctx, project.ID)
		require.NoError(t, err)
		require.Len(t, purchases, 2)
		assert.Equal(t, second.ID, purchases[0].ID)
		assert.Len(t, purchases[1].Items, 3)
	})

	t.Run("UpdatePurchase replaces items", func(t *testing.T) {
		oldItemID := purchase.Items[0].ID
		update := &models.Purchase{
			ID:          purchase.ID,
			PayerID:     bob.ID,
			Name:        "Groceries (fixed)",
			PurchasedOn: "2024-03-02",
			Items: []models.Item{
				{ID: oldItemID, Name: "Cheese", Price: money("6.00"), Quantity: 1, Discount: decimal.Zero, Contributors: []string{alice.ID}},
			},
		}
		require.NoError(t, store.UpdatePurchase(ctx, update))
		assert.NotEqual(t, oldItemID, update.Items[0].ID)

		got, err := store.GetPurchase(ctx, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.PayerID)
		assert.Equal(t, bob.ID, got.CreatorID)
		assert.Equal(t, project.ID, got.ProjectID)
		assert.Equal(t, purchase.CreatedAt, got.CreatedAt)
		assert.Equal(t, "Groceries (fixed)", got.Name)
		assert.Equal(t, "2024-03-02", got.PurchasedOn)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Cheese", got.Items[0].Name)
		assert.Equal(t, []string{alice.ID}, got.Items[0].Contributors)
		assert.True(t, got.Total().Equal(money("6")))

		var orphans int
		require.NoError(t, store.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM contributors WHERE item_id = ?", oldItemID,
		).Scan(&orphans))
		assert.Zero(t, orphans)

		err = store.UpdatePurchase(ctx, &models.Purchase{ID: "missing", PayerID: bob.ID, Name: "x", PurchasedOn: "2024-01-01"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeletePurchase", func(t *testing.T) {
		require.NoError(t, store.DeletePurchase(ctx, purchase.ID))
		_, err := store.GetPurchase(ctx, purchase.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeletePurchase(ctx, purchase.ID), storage.ErrNotFound)
	})
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	project := &models.Project{Name: "Flat", CreatedBy: alice.ID, Participants: []models.Participant{{UserID: bob.ID}}}
	require.NoError(t, store.CreateProject(ctx, project))

	withNote := &models.Payment{ProjectID: project.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: money("20.10"), CreatedBy: bob.ID, Note: "rent"}
	noNote := &models.Payment{ProjectID: project.ID, PayerID: alice.ID, ReceiverID: bob.ID, Amount: money("3"), CreatedBy: alice.ID}
	require.NoError(t, store.CreatePayment(ctx, withNote))
	require.NoError(t, store.CreatePayment(ctx, noNote))

	got, err := store.GetPayment(ctx, withNote.ID)
	require.NoError(t, err)
	assert.Equal(t, "rent", got.Note)
	assert.True(t, got.Amount.Equal(money("20.1")))
	assert.NotEmpty(t, got.PaidOn)

	got, err = store.GetPayment(ctx, noNote.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Note)

	payments, err := store.ListPaymentsByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	require.NoError(t, store.DeletePayment(ctx, withNote.ID))
	_, err = store.GetPayment(ctx, withNote.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.DeletePayment(ctx, withNote.ID), storage.ErrNotFound)
}

func TestRemoveUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	loner := createUser(t, store, "loner")

	project := &models.Project{Name: "Flat", CreatedBy: alice.ID, Participants: []models.Participant{{UserID: bob.ID}}}
	require.NoError(t, store.CreateProject(ctx, project))
	require.NoError(t, store.CreatePayment(ctx, &models.Payment{
		ProjectID: project.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: money("5"), CreatedBy: bob.ID,
	}))

	t.Run("user without history is deleted", func(t *testing.T) {
		anonymized, err := store.RemoveUser(ctx, loner.ID)
		require.NoError(t, err)
		assert.False(t, anonymized)
		_, err = store.GetUserByID(ctx, loner.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("user with history is anonymized", func(t *testing.T) {
		anonymized, err := store.RemoveUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.True(t, anonymized)

		got, err := store.GetUserByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AnonymizedName(bob.ID), got.Name)
		assert.Empty(t, got.PasswordHash)
		assert.False(t, got.Active)

		p, err := store.GetProject(ctx, project.ID)
		require.NoError(t, err)
		assert.False(t, p.IsActiveParticipant(bob.ID))

		// The name becomes available again.
		createUser(t, store, "bob")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.RemoveUser(ctx, "ghost")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestLedgerSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")

	flat := &models.Project{Name: "Flat", CreatedBy: alice.ID, Participants: []models.Participant{{UserID: bob.ID}}}
	trip := &models.Project{Name: "Trip", CreatedBy: alice.ID, Participants: []models.Participant{{UserID: carol.ID}}}
	require.NoError(t, store.CreateProject(ctx, flat))
	require.NoError(t, store.CreateProject(ctx, trip))

	require.NoError(t, store.CreatePurchase(ctx, &models.Purchase{
		ProjectID: flat.ID, PayerID: alice.ID, CreatorID: alice.ID, Name: "Dinner",
		Items: []models.Item{{Name: "Pizza", Price: money("30"), Quantity: 1, Contributors: []string{alice.ID, bob.ID}}},
	}))
	require.NoError(t, store.CreatePurchase(ctx, &models.Purchase{
		ProjectID: trip.ID, PayerID: carol.ID, CreatorID: carol.ID, Name: "Fuel",
		Items: []models.Item{{Name: "Diesel", Price: money("40"), Quantity: 1, Contributors: []string{alice.ID, carol.ID}}},
	}))
	require.NoError(t, store.CreatePayment(ctx, &models.Payment{
		ProjectID: flat.ID, PayerID: bob.ID, ReceiverID: alice.ID, Amount: money("5"), CreatedBy: bob.ID,
	}))

	t.Run("project scope", func(t *testing.T) {
		snap, err := store.LedgerSnapshot(ctx, bob.ID, flat.ID)
		require.NoError(t, err)
		assert.Len(t, snap.Purchases, 1)
		assert.Len(t, snap.Payments, 1)
		assert.Equal(t, "alice", snap.DisplayName(alice.ID))

		res := ledger.Compute(snap, ledger.Query{ViewerID: bob.ID, ProjectID: flat.ID})
		require.True(t, res.Authorized)
		require.Len(t, res.Transactions, 1)
		tx := res.Transactions[0]
		assert.Equal(t, "bob", tx.FromName)
		assert.Equal(t, "alice", tx.ToName)
		assert.True(t, tx.Amount.Equal(money("10")), "amount %s", tx.Amount)
	})

	t.Run("non-member gets an empty snapshot", func(t *testing.T) {
		snap, err := store.LedgerSnapshot(ctx, bob.ID, trip.ID)
		require.NoError(t, err)
		assert.Empty(t, snap.Purchases)
		assert.Empty(t, snap.Payments)
		assert.False(t, ledger.Compute(snap, ledger.Query{ViewerID: bob.ID, ProjectID: trip.ID}).Authorized)
	})

	t.Run("global scope covers all active projects", func(t *testing.T) {
		snap, err := store.LedgerSnapshot(ctx, alice.ID, "")
		require.NoError(t, err)
		assert.Len(t, snap.Purchases, 2)

		snap, err = store.LedgerSnapshot(ctx, bob.ID, "")
		require.NoError(t, err)
		assert.Len(t, snap.Purchases, 1)
	})

	t.Run("departed participant stays in project history", func(t *testing.T) {
		require.NoError(t, store.RemoveParticipant(ctx, flat.ID, bob.ID))

		snap, err := store.LedgerSnapshot(ctx, alice.ID, flat.ID)
		require.NoError(t, err)
		res := ledger.Compute(snap, ledger.Query{ViewerID: alice.ID, ProjectID: flat.ID})
		require.True(t, res.Authorized)
		require.Len(t, res.Transactions, 1)
		assert.Equal(t, bob.ID, res.Transactions[0].FromID)

		snap, err = store.LedgerSnapshot(ctx, bob.ID, flat.ID)
		require.NoError(t, err)
		assert.False(t, ledger.Compute(snap, ledger.Query{ViewerID: bob.ID, ProjectID: flat.ID}).Authorized)
	})
}

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.db")

	rw, err := New(path)
	require.NoError(t, err)
	alice := createUser(t, rw, "alice")
	require.NoError(t, rw.Close())

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()

	got, err := ro.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	err = ro.CreateUser(ctx, models.NewUser("bob", "hash"))
	assert.Error(t, err, "read-only store accepted a write")

	t.Run("missing file is not created", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.db")
		_, err := OpenReadOnly(missing)
		require.Error(t, err)
		assert.NoFileExists(t, missing)
	})
}
