package ports

import "context"

// TokenStore persists the access token between runs. Implementations must
// be safe for concurrent use. Get returns domain.ErrNoToken when nothing is
// stored; any other error is treated by callers as an absent token.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// TokenSource exposes the token of the active session to services that call
// authenticated endpoints. ok is false unless a session is authenticated.
type TokenSource interface {
	Token() (token string, ok bool)
}
