package ports

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// Credentials carries a username and password pair for login. Only
// presence is validated here; the length policy applies at registration.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name,omitempty"`
}

// AuthAPI defines the remote authentication operations the client depends
// on. Login and Register return a bearer token on success; CurrentUser
// resolves the identity behind a token.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	Register(ctx context.Context, input RegisterInput) (string, error)
	CurrentUser(ctx context.Context, token string) (domain.Identity, error)
}
