package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

// SessionService owns the access token lifecycle and the identity of the
// current session. Permission and role queries derive purely from the held
// identity's role; with no identity they answer false. All state is guarded
// by a mutex, so the service is safe for concurrent use.
type SessionService struct {
	store  ports.TokenStore
	auth   ports.AuthAPI
	logger zerolog.Logger

	mu       sync.Mutex
	state    domain.SessionState
	identity *domain.Identity
	token    string
}

func NewSessionService(store ports.TokenStore, auth ports.AuthAPI, logger zerolog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		auth:   auth,
		logger: logger,
		state:  domain.SessionUnresolved,
	}
}

// Resolve establishes the session from the stored token. Without a token the
// session becomes anonymous immediately. With one, the identity is fetched
// exactly once; on any failure the token is discarded and the session
// becomes anonymous silently. Resolve never leaves the session unresolved
// and never retries.
func (s *SessionService) Resolve(ctx context.Context) domain.SessionState {
	token, err := s.store.Get(ctx)
	if err != nil || token == "" {
		s.setAnonymous()
		return domain.SessionAnonymous
	}

	identity, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("stored token rejected, demoting to anonymous")
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.logger.Warn().Err(clearErr).Msg("failed to discard rejected token")
		}
		s.setAnonymous()
		return domain.SessionAnonymous
	}

	s.mu.Lock()
	s.state = domain.SessionAuthenticated
	s.identity = &identity
	s.token = token
	s.mu.Unlock()

	s.logger.Debug().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("session resolved")
	return domain.SessionAuthenticated
}

// Login authenticates with the remote API, persists the returned token and
// resolves the identity behind it. Unlike Resolve, failures are surfaced.
func (s *SessionService) Login(ctx context.Context, creds ports.Credentials) (domain.Identity, error) {
	if creds.Username == "" || creds.Password == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		return domain.Identity{}, err
	}
	return s.adopt(ctx, token)
}

// Register creates an account and opens a session for it in one step.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (domain.Identity, error) {
	if input.Username == "" || input.Password == "" || input.Email == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	token, err := s.auth.Register(ctx, input)
	if err != nil {
		return domain.Identity{}, err
	}
	return s.adopt(ctx, token)
}

// adopt persists a freshly issued token and fetches the identity behind it.
// A token that cannot be resolved right after issue is discarded again.
func (s *SessionService) adopt(ctx context.Context, token string) (domain.Identity, error) {
	if err := s.store.Set(ctx, token); err != nil {
		return domain.Identity{}, err
	}

	identity, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			s.logger.Warn().Err(clearErr).Msg("failed to discard unusable token")
		}
		s.setAnonymous()
		return domain.Identity{}, err
	}

	s.mu.Lock()
	s.state = domain.SessionAuthenticated
	s.identity = &identity
	s.token = token
	s.mu.Unlock()

	s.logger.Info().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("session opened")
	return identity, nil
}

// Logout discards the stored token and demotes the session to anonymous.
// Idempotent: with no active session only the discard attempt remains.
func (s *SessionService) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	s.setAnonymous()
	if err != nil {
		return err
	}
	s.logger.Info().Msg("session closed")
	return nil
}

// HasPermission reports whether the current identity's role grants the
// permission. False whenever no identity is held, for unknown roles and for
// unknown permission tokens. Never an error: denial is a query result.
func (s *SessionService) HasPermission(p domain.Permission) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return false
	}
	return s.identity.Role.Can(p)
}

// HasRole reports whether the current identity's role is one of the given
// roles. False whenever no identity is held or the set is empty.
func (s *SessionService) HasRole(roles ...domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return false
	}
	for _, r := range roles {
		if s.identity.Role == r {
			return true
		}
	}
	return false
}

// State returns the current session state.
func (s *SessionService) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns a copy of the held identity. ok is false when the
// session is not authenticated.
func (s *SessionService) Identity() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the validated token of the authenticated session. It
// implements ports.TokenSource for the API client.
func (s *SessionService) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.SessionAuthenticated || s.token == "" {
		return "", false
	}
	return s.token, true
}

func (s *SessionService) setAnonymous() {
	s.mu.Lock()
	s.state = domain.SessionAnonymous
	s.identity = nil
	s.token = ""
	s.mu.Unlock()
}
