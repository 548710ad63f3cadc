package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

// common holds the flags shared by every command.
type common struct {
	dbPath   string
	currency string
	viewer   string
	project  string
}

func (c *common) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", envOr("DB_PATH", "./data/ledger.db"), "Path to the SQLite database.")
	f.StringVar(&c.currency, "currency", envOr("CURRENCY", money.EUR), "ISO 4217 code used to display amounts.")
	f.StringVar(&c.viewer, "viewer", "", "Name of the user whose view is computed (required).")
	f.StringVar(&c.project, "project", "", "Project ID. Empty means every project of the viewer.")
}

// open opens the database read-only and resolves the viewer name to a user ID.
func (c *common) open(ctx context.Context) (storage.Store, string, error) {
	if c.viewer == "" {
		return nil, "", errors.New("-viewer is required")
	}
	if money.GetCurrency(strings.ToUpper(c.currency)) == nil {
		return nil, "", fmt.Errorf("unknown currency %q", c.currency)
	}
	store, err := sqlite.OpenReadOnly(c.dbPath)
	if err != nil {
		return nil, "", err
	}
	user, err := store.GetUserByName(ctx, c.viewer)
	if err != nil {
		store.Close()
		return nil, "", fmt.Errorf("viewer %q: %w", c.viewer, err)
	}
	return store, user.ID, nil
}

// formatAmount renders amount in the currency's display format, rounded to
// the currency's minor unit.
func formatAmount(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, code).Display()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
