package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const userColumns = "id, name, password_hash, active, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.PasswordHash,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.PasswordHash,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("user name %q: %w", user.Name, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByName retrieves a user by their unique name.
func (s *SQLiteStore) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE name = ?", name)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Returns a map of user ID to User object.
// Users that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	return getUsersByIDs(ctx, s.db, ids)
}

func getUsersByIDs(ctx context.Context, q queryer, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	query := "SELECT " + userColumns + " FROM users WHERE id IN (" + placeholders(len(ids)) + ")"
	rows, err := q.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// RemoveUser deletes a user, or anonymizes them in place when purchases,
// items or payments still reference them.
func (s *SQLiteStore) RemoveUser(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	found, err := exists(ctx, tx, "SELECT 1 FROM users WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	if !found {
		return false, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}

	referenced, err := exists(ctx, tx, `
		SELECT 1 WHERE
			EXISTS (SELECT 1 FROM purchases WHERE payer_id = ?1 OR creator_id = ?1)
			OR EXISTS (SELECT 1 FROM contributors WHERE user_id = ?1)
			OR EXISTS (SELECT 1 FROM payments WHERE payer_id = ?1 OR receiver_id = ?1 OR created_by = ?1)`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check user references: %w", err)
	}

	if referenced {
		_, err = tx.ExecContext(ctx,
			"UPDATE users SET name = ?, password_hash = '', active = 0, updated_at = ? WHERE id = ?",
			models.AnonymizedName(id), time.Now().Unix(), id,
		)
		if err != nil {
			return false, fmt.Errorf("failed to anonymize user: %w", err)
		}
		if _, err = tx.ExecContext(ctx, "UPDATE participations SET active = 0 WHERE user_id = ?", id); err != nil {
			return false, fmt.Errorf("failed to deactivate participations: %w", err)
		}
	} else {
		if _, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
			return false, fmt.Errorf("failed to delete user: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return referenced, nil
}
