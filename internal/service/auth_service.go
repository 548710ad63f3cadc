package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	s.logger.Info("Register request", "name", req.Msg.Name)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Name, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "name", req.Msg.Name, "error", err)
		switch {
		case errors.Is(err, auth.ErrNameTaken):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return connect.NewResponse(&api.RegisterResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	s.logger.Info("Login request", "name", req.Msg.Name)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Name, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "name", req.Msg.Name, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return connect.NewResponse(&api.LoginResponse{
		User:  toAPIUser(user),
		Token: token,
	}), nil
}

// GetCurrentUser returns the authenticated user's account.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetCurrentUser failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	if !user.Active {
		return nil, connect.NewError(connect.CodeUnauthenticated, ErrUserInactive)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// DeleteAccount removes the caller's account. An account that still appears
// in purchases or payments is anonymized instead, so balances of the other
// participants stay intact. Projects left without active participants are
// deleted.
func (s *AuthService) DeleteAccount(ctx context.Context, req *connect.Request[api.DeleteAccountRequest]) (*connect.Response[api.DeleteAccountResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteAccount request", "user_id", userID)

	projects, err := s.store.ListProjectsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("DeleteAccount failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	anonymized, err := s.store.RemoveUser(ctx, userID)
	if err != nil {
		s.logger.Error("DeleteAccount failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	resp := &api.DeleteAccountResponse{Anonymized: anonymized}
	for _, p := range projects {
		deleted, err := deleteIfAbandoned(ctx, s.store, p.ID)
		if err != nil {
			s.logger.Error("Failed to clean up project", "project_id", p.ID, "error", err)
			return nil, toConnectError(err)
		}
		if deleted {
			resp.DeletedProjectIDs = append(resp.DeletedProjectIDs, p.ID)
		}
	}

	s.logger.Info("Account removed",
		"user_id", userID,
		"anonymized", anonymized,
		"deleted_projects", len(resp.DeletedProjectIDs),
	)
	return connect.NewResponse(resp), nil
}

// deleteIfAbandoned deletes the project when it has no active participant left.
func deleteIfAbandoned(ctx context.Context, store storage.ProjectStore, projectID string) (bool, error) {
	project, err := store.GetProject(ctx, projectID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if project.ActiveCount() > 0 {
		return false, nil
	}
	if err := store.DeleteProject(ctx, projectID); err != nil {
		return false, err
	}
	return true, nil
}
