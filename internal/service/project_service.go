package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/Rhymond/go-money"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// ProjectService implements the Connect ProjectService.
type ProjectService struct {
	store    storage.Store
	engine   *ledger.Engine
	currency string
}

// NewProjectService creates a new ProjectService with the given storage backend.
func NewProjectService(store storage.Store) *ProjectService {
	return &ProjectService{store: store, engine: ledger.NewEngine(store), currency: money.EUR}
}

// WithCurrency sets the currency code reported with project stats.
func (s *ProjectService) WithCurrency(code string) *ProjectService {
	s.currency = code
	return s
}

// CreateProject creates a project with the caller and the named users as
// active participants.
func (s *ProjectService) CreateProject(ctx context.Context, req *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.CreateProjectResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateProject request received",
		"user_id", userID,
		"name", req.Msg.Name,
		"participants_count", len(req.Msg.ParticipantNames),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		CreatedBy:   userID,
	}
	for _, name := range dedupe(req.Msg.ParticipantNames) {
		user, err := s.store.GetUserByName(ctx, name)
		if err != nil {
			return nil, toConnectError(err)
		}
		if !user.Active {
			return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%s: %w", name, ErrUserInactive))
		}
		project.Participants = append(project.Participants, models.Participant{UserID: user.ID})
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		slog.Error("CreateProject failed", "error", err)
		return nil, toConnectError(err)
	}

	created, err := s.store.GetProject(ctx, project.ID)
	if err != nil {
		slog.Error("Failed to fetch created project", "project_id", project.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Project created", "project_id", created.ID)
	return connect.NewResponse(&api.CreateProjectResponse{Project: toAPIProject(created)}), nil
}

// GetProject returns a project the caller participates in.
func (s *ProjectService) GetProject(ctx context.Context, req *connect.Request[api.GetProjectRequest]) (*connect.Response[api.GetProjectResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	project, err := activeProject(ctx, s.store, req.Msg.ProjectID, userID)
	if err != nil {
		slog.Warn("GetProject failed", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetProjectResponse{Project: toAPIProject(project)}), nil
}

// UpdateProject renames a project or changes its description. Any active
// participant may do so.
func (s *ProjectService) UpdateProject(ctx context.Context, req *connect.Request[api.UpdateProjectRequest]) (*connect.Response[api.UpdateProjectResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateProject request received", "user_id", userID, "project_id", req.Msg.ProjectID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	project, err := activeProject(ctx, s.store, req.Msg.ProjectID, userID)
	if err != nil {
		slog.Warn("UpdateProject failed", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}

	project.Name = req.Msg.Name
	project.Description = req.Msg.Description
	if err := s.store.UpdateProject(ctx, project); err != nil {
		slog.Error("UpdateProject failed", "project_id", project.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Project updated", "project_id", project.ID)
	return connect.NewResponse(&api.UpdateProjectResponse{Project: toAPIProject(project)}), nil
}

// ListProjects returns the projects the caller is active in.
func (s *ProjectService) ListProjects(ctx context.Context, req *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := s.store.ListProjectsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListProjects failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Project, len(projects))
	for i, p := range projects {
		out[i] = toAPIProject(p)
	}

	slog.Info("ListProjects successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListProjectsResponse{Projects: out}), nil
}

// AddParticipant adds a user to the project, or reactivates one who left.
func (s *ProjectService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if _, err := activeProject(ctx, s.store, req.Msg.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.store.GetUserByName(ctx, req.Msg.UserName)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !user.Active {
		return nil, toConnectError(fmt.Errorf("%s: %w", req.Msg.UserName, ErrUserInactive))
	}

	if err := s.store.AddParticipant(ctx, req.Msg.ProjectID, user.ID); err != nil {
		slog.Error("AddParticipant failed", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}

	project, err := s.store.GetProject(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "project_id", project.ID, "participant_id", user.ID, "by", userID)
	return connect.NewResponse(&api.AddParticipantResponse{Project: toAPIProject(project)}), nil
}

// RemoveParticipant deactivates a participant. Their history stays in the
// project. When nobody active remains the project is deleted.
func (s *ProjectService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	if _, err := activeProject(ctx, s.store, req.Msg.ProjectID, userID); err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.RemoveParticipant(ctx, req.Msg.ProjectID, req.Msg.UserID); err != nil {
		slog.Warn("RemoveParticipant failed", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}

	deleted, err := deleteIfAbandoned(ctx, s.store, req.Msg.ProjectID)
	if err != nil {
		slog.Error("Failed to clean up project", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}
	if deleted {
		slog.Info("Project deleted after last participant left", "project_id", req.Msg.ProjectID)
		return connect.NewResponse(&api.RemoveParticipantResponse{ProjectDeleted: true}), nil
	}

	project, err := s.store.GetProject(ctx, req.Msg.ProjectID)
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Participant removed", "project_id", project.ID, "participant_id", req.Msg.UserID, "by", userID)
	return connect.NewResponse(&api.RemoveParticipantResponse{Project: toAPIProject(project)}), nil
}

// GetProjectStats returns total and per-payer purchase spending.
func (s *ProjectService) GetProjectStats(ctx context.Context, req *connect.Request[api.GetProjectStatsRequest]) (*connect.Response[api.GetProjectStatsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	stats, authorized, err := s.engine.Spending(ctx, userID, req.Msg.ProjectID)
	if err != nil {
		slog.Error("GetProjectStats failed", "project_id", req.Msg.ProjectID, "error", err)
		return nil, toConnectError(err)
	}
	if !authorized {
		// Distinguish a missing project from one the caller cannot see.
		if _, err := s.store.GetProject(ctx, req.Msg.ProjectID); errors.Is(err, storage.ErrNotFound) {
			return nil, toConnectError(err)
		}
		return nil, toConnectError(ErrNotParticipant)
	}

	resp := toAPIStats(stats)
	resp.Currency = s.currency
	return connect.NewResponse(resp), nil
}
