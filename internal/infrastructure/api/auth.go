package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	if err := checkInput(creds); err != nil {
		return "", err
	}
	var out tokenResponse
	if err := c.post(ctx, "/users/login", creds, &out); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("api: login response carried no access token")
	}
	return out.AccessToken, nil
}

// Register creates the account and logs it straight in. The backend's
// register endpoint returns the created user, not a token, so a login with
// the same credentials follows.
func (c *Client) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	if err := checkInput(input); err != nil {
		return "", err
	}
	if err := c.post(ctx, "/users/register", input, nil); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", domain.ErrUserExists
		}
		return "", err
	}
	return c.Login(ctx, ports.Credentials{Username: input.Username, Password: input.Password})
}

// CurrentUser resolves the identity behind an explicit token. Used during
// session resolution, before the session exposes a token of its own.
func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	var identity domain.Identity
	if err := c.doAs(ctx, token, http.MethodGet, "/users/me", nil, &identity); err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}
