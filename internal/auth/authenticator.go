package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator verifies who a caller is.
// Implementations can be swapped (passwords today, passkeys or OAuth later)
// without touching the service layer.
type Authenticator interface {
	// Register creates a new user account with the given unique name and credential.
	Register(ctx context.Context, name, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching active user.
	Authenticate(ctx context.Context, name, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
