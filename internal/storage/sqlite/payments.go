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

const paymentColumns = "id, project_id, payer_id, receiver_id, amount, created_by, note, paid_on, created_at"

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}
	if payment.PaidOn == "" {
		payment.PaidOn = time.Unix(payment.CreatedAt, 0).UTC().Format(time.DateOnly)
	}

	var note any
	if payment.Note != "" {
		note = payment.Note
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		payment.ID, payment.ProjectID, payment.PayerID, payment.ReceiverID,
		payment.Amount.String(), payment.CreatedBy, note, payment.PaidOn, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPaymentsByProject retrieves all payments of a project, newest first.
func (s *SQLiteStore) ListPaymentsByProject(ctx context.Context, projectID string) ([]*models.Payment, error) {
	return listPayments(ctx, s.db,
		"SELECT "+paymentColumns+" FROM payments WHERE project_id = ? ORDER BY paid_on DESC, created_at DESC, id",
		projectID,
	)
}

// DeletePayment removes a payment by ID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted payment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	var note sql.NullString
	err := row.Scan(&p.ID, &p.ProjectID, &p.PayerID, &p.ReceiverID,
		&p.Amount, &p.CreatedBy, &note, &p.PaidOn, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if note.Valid {
		p.Note = note.String
	}
	return p, nil
}

func listPayments(ctx context.Context, q queryer, query string, args ...any) ([]*models.Payment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
