package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	ErrNotParticipant     = errors.New("not an active participant of this project")
	ErrInactiveAssignment = errors.New("payer and contributors must be active participants")
	ErrNotPaymentParty    = errors.New("only the payer or the receiver may change a payment")
	ErrNotCreator         = errors.New("only the creator may change a purchase")
	ErrSelfPayment        = errors.New("payer and receiver must differ")
	ErrUserInactive       = errors.New("user is no longer active")
)

// toConnectError maps storage and service errors to Connect codes.
// Errors that already carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrNotPaymentParty), errors.Is(err, ErrNotCreator):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, ErrInactiveAssignment), errors.Is(err, ErrSelfPayment), errors.Is(err, ErrUserInactive):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// callerID returns the authenticated user, or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
