package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

type fixture struct {
	dbPath  string
	engine  *ledger.Engine
	alice   *models.User
	bob     *models.User
	carol   *models.User
	project string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		dbPath: dbPath,
		engine: ledger.NewEngine(store),
		alice:  models.NewUser("alice", "hash"),
		bob:    models.NewUser("bob", "hash"),
		carol:  models.NewUser("carol", "hash"),
	}
	for _, u := range []*models.User{f.alice, f.bob, f.carol} {
		require.NoError(t, store.CreateUser(ctx, u))
	}

	project := &models.Project{
		Name:         "Flat",
		CreatedBy:    f.alice.ID,
		Participants: []models.Participant{{UserID: f.bob.ID}},
	}
	require.NoError(t, store.CreateProject(ctx, project))
	f.project = project.ID

	require.NoError(t, store.CreatePurchase(ctx, &models.Purchase{
		ProjectID: project.ID,
		PayerID:   f.alice.ID,
		CreatorID: f.alice.ID,
		Name:      "Groceries",
		Items: []models.Item{{
			Name:         "Food",
			Price:        decimal.RequireFromString("22.00"),
			Quantity:     1,
			Contributors: []string{f.alice.ID, f.bob.ID},
		}},
	}))
	return f
}

func TestBalancesCmd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("project scope", func(t *testing.T) {
		cmd := &balancesCmd{common: common{viewer: "alice", project: f.project, currency: "USD"}}
		var out bytes.Buffer
		require.NoError(t, cmd.run(ctx, f.engine, f.alice.ID, &out))
		assert.Contains(t, out.String(), "bob")
		assert.Contains(t, out.String(), "pays")
		assert.Contains(t, out.String(), "alice")
		assert.Contains(t, out.String(), "$11.00")
	})

	t.Run("mine filters out other people's debts", func(t *testing.T) {
		cmd := &balancesCmd{common: common{viewer: "carol", currency: "USD"}, mine: true}
		var out bytes.Buffer
		require.NoError(t, cmd.run(ctx, f.engine, f.carol.ID, &out))
		assert.Equal(t, "All settled up.\n", out.String())
	})

	t.Run("non-participant", func(t *testing.T) {
		cmd := &balancesCmd{common: common{viewer: "carol", project: f.project, currency: "USD"}}
		var out bytes.Buffer
		err := cmd.run(ctx, f.engine, f.carol.ID, &out)
		require.Error(t, err)
		assert.Empty(t, out.String())
	})
}

func TestStatsCmd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cmd := &statsCmd{common: common{viewer: "bob", project: f.project, currency: "USD"}}
	var out bytes.Buffer
	require.NoError(t, cmd.run(ctx, f.engine, f.bob.ID, &out))
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "Total")
	assert.Contains(t, out.String(), "$22.00")

	carol := &statsCmd{common: common{viewer: "carol", project: f.project, currency: "USD"}}
	assert.ErrorIs(t, carol.run(ctx, f.engine, f.carol.ID, &out), errNotParticipant)
}

func TestOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	tests := []struct {
		name string
		c    common
	}{
		{name: "missing viewer", c: common{dbPath: dbPath, currency: "USD"}},
		{name: "unknown currency", c: common{dbPath: dbPath, currency: "ZZZ", viewer: "alice"}},
		{name: "missing database", c: common{dbPath: dbPath, currency: "USD", viewer: "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.c.open(ctx)
			assert.Error(t, err)
		})
	}
	assert.NoFileExists(t, dbPath, "reporting must not create a database")

	t.Run("unknown viewer", func(t *testing.T) {
		c := common{dbPath: f.dbPath, currency: "USD", viewer: "dave"}
		_, _, err := c.open(ctx)
		assert.Error(t, err)
	})

	t.Run("resolves viewer", func(t *testing.T) {
		c := common{dbPath: f.dbPath, currency: "USD", viewer: "bob"}
		store, viewerID, err := c.open(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.Equal(t, f.bob.ID, viewerID)
	})
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$11.00", formatAmount(decimal.RequireFromString("11"), "usd"))
	assert.Equal(t, "$0.34", formatAmount(decimal.RequireFromString("0.335"), "USD"))
	assert.Equal(t, "1.50 XYZ", formatAmount(decimal.RequireFromString("1.5"), "XYZ"))
}
