package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const purchaseColumns = "id, project_id, payer_id, creator_id, name, purchased_on, created_at"

// CreatePurchase persists a purchase with its items and contributors.
func (s *SQLiteStore) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	if purchase.CreatedAt == 0 {
		purchase.CreatedAt = time.Now().Unix()
	}
	if purchase.PurchasedOn == "" {
		purchase.PurchasedOn = time.Unix(purchase.CreatedAt, 0).UTC().Format(time.DateOnly)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO purchases ("+purchaseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		purchase.ID, purchase.ProjectID, purchase.PayerID, purchase.CreatorID,
		purchase.Name, purchase.PurchasedOn, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	if err := insertItems(ctx, tx, purchase); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdatePurchase overwrites the payer, name, date and items of an existing
// purchase. Items are replaced wholesale and get fresh IDs. The project,
// creator and creation time are left untouched.
func (s *SQLiteStore) UpdatePurchase(ctx context.Context, purchase *models.Purchase) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE purchases SET payer_id = ?, name = ?, purchased_on = ? WHERE id = ?",
		purchase.PayerID, purchase.Name, purchase.PurchasedOn, purchase.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated purchase: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("purchase %s: %w", purchase.ID, storage.ErrNotFound)
	}

	// Contributors cascade with their items.
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE purchase_id = ?", purchase.ID); err != nil {
		return fmt.Errorf("failed to delete items: %w", err)
	}
	for i := range purchase.Items {
		purchase.Items[i].ID = ""
	}
	if err := insertItems(ctx, tx, purchase); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertItems writes purchase.Items in order, assigning missing IDs.
func insertItems(ctx context.Context, tx *sql.Tx, purchase *models.Purchase) error {
	for i := range purchase.Items {
		item := &purchase.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO items (id, purchase_id, position, name, price, quantity, discount) VALUES (?, ?, ?, ?, ?, ?, ?)",
			item.ID, purchase.ID, i, item.Name, item.Price.String(), item.Quantity, item.Discount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for _, userID := range item.Contributors {
			_, err = tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO contributors (item_id, user_id) VALUES (?, ?)",
				item.ID, userID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert contributor: %w", err)
			}
		}
	}
	return nil
}

// GetPurchase retrieves a purchase by ID, including all items.
func (s *SQLiteStore) GetPurchase(ctx context.Context, id string) (*models.Purchase, error) {
	purchase, err := scanPurchase(s.db.QueryRowContext(ctx,
		"SELECT "+purchaseColumns+" FROM purchases WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("purchase %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	items, err := loadItems(ctx, s.db, []string{id})
	if err != nil {
		return nil, err
	}
	purchase.Items = items[id]
	return purchase, nil
}

// ListPurchasesByProject returns a project's purchases, newest first.
func (s *SQLiteStore) ListPurchasesByProject(ctx context.Context, projectID string) ([]*models.Purchase, error) {
	purchases, err := listPurchases(ctx, s.db,
		"SELECT "+purchaseColumns+" FROM purchases WHERE project_id = ? ORDER BY purchased_on DESC, created_at DESC, id",
		projectID,
	)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(purchases))
	for i, p := range purchases {
		ids[i] = p.ID
	}
	items, err := loadItems(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range purchases {
		p.Items = items[p.ID]
	}
	return purchases, nil
}

// DeletePurchase removes a purchase. Items and contributors cascade.
func (s *SQLiteStore) DeletePurchase(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM purchases WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted purchase: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("purchase %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func scanPurchase(row interface{ Scan(...any) error }) (*models.Purchase, error) {
	p := &models.Purchase{}
	err := row.Scan(&p.ID, &p.ProjectID, &p.PayerID, &p.CreatorID, &p.Name, &p.PurchasedOn, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func listPurchases(ctx context.Context, q queryer, query string, args ...any) ([]*models.Purchase, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*models.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}
	return purchases, nil
}

// loadItems fetches the items of the given purchases in position order,
// keyed by purchase ID, with their contributors attached.
func loadItems(ctx context.Context, q queryer, purchaseIDs []string) (map[string][]models.Item, error) {
	byPurchase := make(map[string][]models.Item)
	if len(purchaseIDs) == 0 {
		return byPurchase, nil
	}

	rows, err := q.QueryContext(ctx,
		"SELECT id, purchase_id, name, price, quantity, discount FROM items WHERE purchase_id IN ("+
			placeholders(len(purchaseIDs))+") ORDER BY purchase_id, position",
		stringArgs(purchaseIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}

	type itemRef struct {
		purchaseID string
		index      int
	}
	refs := make(map[string]itemRef)
	var itemIDs []string
	for rows.Next() {
		var item models.Item
		var purchaseID string
		if err := rows.Scan(&item.ID, &purchaseID, &item.Name, &item.Price, &item.Quantity, &item.Discount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		refs[item.ID] = itemRef{purchaseID: purchaseID, index: len(byPurchase[purchaseID])}
		itemIDs = append(itemIDs, item.ID)
		byPurchase[purchaseID] = append(byPurchase[purchaseID], item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	if len(itemIDs) == 0 {
		return byPurchase, nil
	}

	contribRows, err := q.QueryContext(ctx,
		"SELECT item_id, user_id FROM contributors WHERE item_id IN ("+
			placeholders(len(itemIDs))+") ORDER BY item_id, user_id",
		stringArgs(itemIDs)...,
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
		ref := refs[itemID]
		item := &byPurchase[ref.purchaseID][ref.index]
		item.Contributors = append(item.Contributors, userID)
	}
	if err := contribRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributors: %w", err)
	}

	return byPurchase, nil
}
