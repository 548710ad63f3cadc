package ledger

import (
	"context"
	"fmt"
	"log/slog"
)

// Source supplies ledger snapshots. Implementations should read all rows of
// one snapshot inside a single read transaction.
type Source interface {
	LedgerSnapshot(ctx context.Context, viewerID, projectID string) (*Snapshot, error)
}

// Query selects what to compute.
type Query struct {
	ViewerID string

	// ProjectID scopes the computation to one project. Empty means the
	// viewer's global view.
	ProjectID string

	// FilterUserID, when set, keeps only transactions involving that user.
	FilterUserID string
}

// Result is the output of one computation.
type Result struct {
	Authorized   bool
	Balances     Balances
	Transactions []Transaction
}

// Compute runs the whole pipeline against snap.
// An unauthorized query yields an empty, unauthorized Result rather than an error.
func Compute(snap *Snapshot, q Query) Result {
	recs := ResolveScope(snap, q.ViewerID, q.ProjectID)
	if !recs.Authorized {
		return Result{Balances: Balances{}, Transactions: []Transaction{}}
	}

	balances := Aggregate(recs)
	debtors, creditors := Partition(balances)
	transfers := Match(debtors, creditors)

	var names NameResolver = &Snapshot{}
	if snap != nil {
		names = snap
	}

	return Result{
		Authorized:   true,
		Balances:     balances,
		Transactions: Format(transfers, names, q.FilterUserID),
	}
}

// Engine computes balances from snapshots fetched from a Source.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	source Source
}

// NewEngine creates an Engine reading from source.
func NewEngine(source Source) *Engine {
	return &Engine{source: source}
}

// Compute fetches a snapshot for q and runs the pipeline on it.
func (e *Engine) Compute(ctx context.Context, q Query) (Result, error) {
	snap, err := e.source.LedgerSnapshot(ctx, q.ViewerID, q.ProjectID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}

	res := Compute(snap, q)
	slog.Debug("Computed balances",
		"viewer_id", q.ViewerID,
		"project_id", q.ProjectID,
		"authorized", res.Authorized,
		"participants", len(res.Balances),
		"transactions", len(res.Transactions),
	)
	return res, nil
}

// ComputeBalances returns the full settlement of the scope.
func (e *Engine) ComputeBalances(ctx context.Context, viewerID, projectID string) ([]Transaction, error) {
	res, err := e.Compute(ctx, Query{ViewerID: viewerID, ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// PersonalBalances returns the settlement of the scope restricted to
// transactions involving viewerID.
func (e *Engine) PersonalBalances(ctx context.Context, viewerID, projectID string) ([]Transaction, error) {
	res, err := e.Compute(ctx, Query{ViewerID: viewerID, ProjectID: projectID, FilterUserID: viewerID})
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// Spending loads the scope for viewerID and summarizes who paid what.
func (e *Engine) Spending(ctx context.Context, viewerID, projectID string) (Stats, bool, error) {
	snap, err := e.source.LedgerSnapshot(ctx, viewerID, projectID)
	if err != nil {
		return Stats{}, false, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}
	recs := ResolveScope(snap, viewerID, projectID)
	if !recs.Authorized {
		return Stats{}, false, nil
	}
	return Spending(recs, snap), true, nil
}
