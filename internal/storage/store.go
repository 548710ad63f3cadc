// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a uniqueness constraint would be violated.
	ErrConflict = errors.New("conflict")
)

// UserStore persists users.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrConflict if the name is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns ErrNotFound if no user has this ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByName returns ErrNotFound if no user has this name.
	GetUserByName(ctx context.Context, name string) (*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// RemoveUser deletes a user without ledger history, or anonymizes one
	// that is still referenced by purchases, items or payments.
	// The returned flag reports whether the user was anonymized.
	RemoveUser(ctx context.Context, id string) (anonymized bool, err error)
}

// ProjectStore persists projects and their participants.
type ProjectStore interface {
	// CreateProject inserts the project and adds its creator and listed
	// participants as active members.
	CreateProject(ctx context.Context, project *models.Project) error

	// GetProject returns the project with all participants, active or not.
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// UpdateProject changes name and description. Participants are managed
	// through AddParticipant and RemoveParticipant.
	UpdateProject(ctx context.Context, project *models.Project) error

	// ListProjectsForUser returns projects where userID is active.
	ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error)

	// AddParticipant adds userID to the project, reactivating a previous
	// membership if one exists.
	AddParticipant(ctx context.Context, projectID, userID string) error

	// RemoveParticipant deactivates a membership without deleting it.
	RemoveParticipant(ctx context.Context, projectID, userID string) error

	// DeleteProject removes the project and everything recorded in it.
	DeleteProject(ctx context.Context, id string) error
}

// PurchaseStore persists purchases with their items and contributors.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, purchase *models.Purchase) error
	GetPurchase(ctx context.Context, id string) (*models.Purchase, error)

	// UpdatePurchase replaces payer, name, date and items in one transaction.
	UpdatePurchase(ctx context.Context, purchase *models.Purchase) error

	ListPurchasesByProject(ctx context.Context, projectID string) ([]*models.Purchase, error)
	DeletePurchase(ctx context.Context, id string) error
}

// PaymentStore persists direct payments.
type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	ListPaymentsByProject(ctx context.Context, projectID string) ([]*models.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}

// Store defines the full storage interface used by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	ProjectStore
	PurchaseStore
	PaymentStore

	// LedgerSnapshot feeds the balance engine.
	ledger.Source

	// Close releases any resources held by the store.
	Close() error
}
