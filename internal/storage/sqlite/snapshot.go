package sqlite

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/ledger"
)

// LedgerSnapshot loads every row the balance engine needs for one query
// inside a single transaction, so concurrent writes are either fully
// visible or not at all.
//
// Only projects the viewer is active in are loaded. With a projectID the
// snapshot is restricted to that project, and comes back empty when the
// viewer is not an active participant of it.
func (s *SQLiteStore) LedgerSnapshot(ctx context.Context, viewerID, projectID string) (*ledger.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	snap := &ledger.Snapshot{Names: make(map[string]string)}

	query := `
		SELECT project_id, user_id, active FROM participations
		WHERE project_id IN (SELECT project_id FROM participations WHERE user_id = ? AND active = 1)`
	args := []any{viewerID}
	if projectID != "" {
		query += " AND project_id = ?"
		args = append(args, projectID)
	}
	if snap.Participations, err = loadParticipations(ctx, tx, query, args...); err != nil {
		return nil, err
	}

	var projectIDs []string
	seen := make(map[string]bool)
	for _, p := range snap.Participations {
		if !seen[p.ProjectID] {
			seen[p.ProjectID] = true
			projectIDs = append(projectIDs, p.ProjectID)
		}
	}
	if len(projectIDs) == 0 {
		return snap, tx.Commit()
	}

	if snap.Purchases, err = loadLedgerPurchases(ctx, tx, projectIDs); err != nil {
		return nil, err
	}
	if snap.Payments, err = loadLedgerPayments(ctx, tx, projectIDs); err != nil {
		return nil, err
	}

	users, err := getUsersByIDs(ctx, tx, referencedUsers(snap))
	if err != nil {
		return nil, err
	}
	for id, u := range users {
		snap.Names[id] = u.Name
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return snap, nil
}

func loadParticipations(ctx context.Context, q queryer, query string, args ...any) ([]ledger.Participation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get participations: %w", err)
	}
	defer rows.Close()

	var participations []ledger.Participation
	for rows.Next() {
		var p ledger.Participation
		if err := rows.Scan(&p.ProjectID, &p.UserID, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		participations = append(participations, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participations: %w", err)
	}
	return participations, nil
}

func loadLedgerPurchases(ctx context.Context, q queryer, projectIDs []string) ([]ledger.Purchase, error) {
	in := placeholders(len(projectIDs))
	args := stringArgs(projectIDs)

	rows, err := q.QueryContext(ctx,
		"SELECT id, project_id, payer_id FROM purchases WHERE project_id IN ("+in+") ORDER BY created_at, id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	var purchases []ledger.Purchase
	index := make(map[string]int)
	for rows.Next() {
		var p ledger.Purchase
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.PayerID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		index[p.ID] = len(purchases)
		purchases = append(purchases, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	itemRows, err := q.QueryContext(ctx, `
		SELECT i.id, i.purchase_id, i.price, i.quantity, i.discount
		FROM items i JOIN purchases p ON p.id = i.purchase_id
		WHERE p.project_id IN (`+in+`)
		ORDER BY i.purchase_id, i.position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	type itemRef struct{ purchase, item int }
	items := make(map[string]itemRef)
	for itemRows.Next() {
		var it ledger.Item
		var purchaseID string
		if err := itemRows.Scan(&it.ID, &purchaseID, &it.Price, &it.Quantity, &it.Discount); err != nil {
			itemRows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		pi, ok := index[purchaseID]
		if !ok {
			continue
		}
		items[it.ID] = itemRef{purchase: pi, item: len(purchases[pi].Items)}
		purchases[pi].Items = append(purchases[pi].Items, it)
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	contribRows, err := q.QueryContext(ctx, `
		SELECT c.item_id, c.user_id
		FROM contributors c
		JOIN items i ON i.id = c.item_id
		JOIN purchases p ON p.id = i.purchase_id
		WHERE p.project_id IN (`+in+`)
		ORDER BY c.item_id, c.user_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributors: %w", err)
	}
	defer contribRows.Close()
	for contribRows.Next() {
		var itemID, userID string
		if err := contribRows.Scan(&itemID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		ref, ok := items[itemID]
		if !ok {
			continue
		}
		it := &purchases[ref.purchase].Items[ref.item]
		it.Contributors = append(it.Contributors, userID)
	}
	if err := contribRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributors: %w", err)
	}

	return purchases, nil
}

func loadLedgerPayments(ctx context.Context, q queryer, projectIDs []string) ([]ledger.Payment, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, project_id, payer_id, receiver_id, amount FROM payments WHERE project_id IN ("+
			placeholders(len(projectIDs))+") ORDER BY created_at, id",
		stringArgs(projectIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		var p ledger.Payment
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.PayerID, &p.ReceiverID, &p.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// referencedUsers lists every user id that appears anywhere in snap.
func referencedUsers(snap *ledger.Snapshot) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, p := range snap.Participations {
		add(p.UserID)
	}
	for _, p := range snap.Purchases {
		add(p.PayerID)
		for _, it := range p.Items {
			for _, c := range it.Contributors {
				add(c)
			}
		}
	}
	for _, p := range snap.Payments {
		add(p.PayerID)
		add(p.ReceiverID)
	}
	return ids
}
