package service

import (
	"context"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// activeProject loads the project and checks that userID is an active
// participant of it.
func activeProject(ctx context.Context, store storage.ProjectStore, projectID, userID string) (*models.Project, error) {
	project, err := store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsActiveParticipant(userID) {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotParticipant)
	}
	return project, nil
}

// requireActive checks that every id is an active participant of project.
func requireActive(project *models.Project, ids ...string) error {
	for _, id := range ids {
		if !project.IsActiveParticipant(id) {
			return fmt.Errorf("user %s in project %s: %w", id, project.ID, ErrInactiveAssignment)
		}
	}
	return nil
}

// requireAssignable checks that the payer and every contributor of purchase
// are active participants. Users already on prev are exempt.
func requireAssignable(project *models.Project, purchase, prev *models.Purchase) error {
	known := make(map[string]bool)
	if prev != nil {
		known[prev.PayerID] = true
		for _, item := range prev.Items {
			for _, id := range item.Contributors {
				known[id] = true
			}
		}
	}

	ids := []string{purchase.PayerID}
	for _, item := range purchase.Items {
		ids = append(ids, item.Contributors...)
	}
	for _, id := range ids {
		if known[id] {
			continue
		}
		if err := requireActive(project, id); err != nil {
			return err
		}
	}
	return nil
}
