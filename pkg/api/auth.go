package api

// User is the public view of an account.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"createdAt"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterResponse carries the new account and a session token.
type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the account and a session token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// GetCurrentUserRequest asks for the caller's account.
type GetCurrentUserRequest struct{}

// GetCurrentUserResponse carries the caller's account.
type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// DeleteAccountRequest removes the caller's account.
type DeleteAccountRequest struct{}

// DeleteAccountResponse reports how the account was removed.
type DeleteAccountResponse struct {
	// Anonymized is true when ledger history kept the account around under
	// an anonymized name instead of deleting it.
	Anonymized bool `json:"anonymized"`

	// DeletedProjectIDs lists projects removed because the account was their
	// last active participant.
	DeletedProjectIDs []string `json:"deletedProjectIds,omitempty"`
}
