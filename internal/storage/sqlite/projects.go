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

// CreateProject persists a new project and enrolls its creator and initial
// participants as active members.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt == 0 {
		project.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO projects (id, name, description, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		project.ID, project.Name, project.Description, project.CreatedBy, project.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	members := []string{project.CreatedBy}
	for _, p := range project.Participants {
		members = append(members, p.UserID)
	}
	for _, userID := range members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO participations (project_id, user_id, active, joined_at) VALUES (?, ?, 1, ?)",
			project.ID, userID, project.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetProject retrieves a project by ID, including every participant.
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project := &models.Project{}
	var createdBy sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, created_at FROM projects WHERE id = ?",
		id,
	).Scan(&project.ID, &project.Name, &project.Description, &createdBy, &project.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	project.CreatedBy = createdBy.String

	if project.Participants, err = s.listParticipants(ctx, id); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context, projectID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.user_id, u.name, p.active, p.joined_at
		FROM participations p JOIN users u ON u.id = p.user_id
		WHERE p.project_id = ?
		ORDER BY p.joined_at, u.name`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.Active, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// ListProjectsForUser returns the projects where userID is an active
// participant, newest first.
func (s *SQLiteStore) ListProjectsForUser(ctx context.Context, userID string) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pr.id
		FROM projects pr JOIN participations pa ON pa.project_id = pr.id
		WHERE pa.user_id = ? AND pa.active = 1
		ORDER BY pr.created_at DESC, pr.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	projects := make([]*models.Project, 0, len(ids))
	for _, id := range ids {
		project, err := s.GetProject(ctx, id)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// UpdateProject changes the name and description of a project.
func (s *SQLiteStore) UpdateProject(ctx context.Context, project *models.Project) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ? WHERE id = ?",
		project.Name, project.Description, project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", project.ID, storage.ErrNotFound)
	}
	return nil
}

// AddParticipant adds a user to a project or reactivates a soft-removed one.
func (s *SQLiteStore) AddParticipant(ctx context.Context, projectID, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participations (project_id, user_id, active, joined_at) VALUES (?, ?, 1, ?)
		ON CONFLICT (project_id, user_id) DO UPDATE SET active = 1`,
		projectID, userID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// RemoveParticipant deactivates a membership. The row is kept so historical
// purchases and payments of the user stay attributable.
func (s *SQLiteStore) RemoveParticipant(ctx context.Context, projectID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE participations SET active = 0 WHERE project_id = ? AND user_id = ?",
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removed participant: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("participant %s in project %s: %w", userID, projectID, storage.ErrNotFound)
	}
	return nil
}

// DeleteProject removes a project. Purchases, items, contributors, payments
// and participations cascade.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted project: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
