package kbtest

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

const tokenTTL = 24 * time.Hour

func (s *Server) handleRegister(c echo.Context) error {
	var req ports.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Username]; exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
	}
	for _, u := range s.users {
		if u.identity.Email == req.Email {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	identity := domain.Identity{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     domain.RoleGuest,
		IsActive: true,
		Level:    1,
	}
	s.users[req.Username] = &userRecord{identity: identity, passwordHash: string(hash)}
	return c.JSON(http.StatusCreated, identity)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req ports.Credentials
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	s.mu.Lock()
	record, ok := s.users[req.Username]
	s.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if bcrypt.CompareHashAndPassword([]byte(record.passwordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": s.issueToken(record.identity, tokenTTL),
		"token_type":   "bearer",
	})
}

func (s *Server) handleMe(c echo.Context) error {
	return c.JSON(http.StatusOK, callerIdentity(c))
}

func (s *Server) issueToken(identity domain.Identity, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub":      identity.ID,
		"username": identity.Username,
		"role":     string(identity.Role),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.secret))
	if err != nil {
		panic("kbtest: signing token: " + err.Error())
	}
	return signed
}

// SeedUser creates an active user with the given role and password.
func (s *Server) SeedUser(username, password string, role domain.Role) domain.Identity {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic("kbtest: hashing password: " + err.Error())
	}
	identity := domain.Identity{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      username + "@example.com",
		Role:       role,
		IsActive:   true,
		IsVerified: true,
		Level:      1,
	}
	s.mu.Lock()
	s.users[username] = &userRecord{identity: identity, passwordHash: string(hash)}
	s.mu.Unlock()
	return identity
}

// DeactivateUser disables the account so its tokens stop resolving.
func (s *Server) DeactivateUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.users[username]; ok {
		record.identity.IsActive = false
	}
}

// TokenFor returns a valid bearer token for an existing user.
func (s *Server) TokenFor(username string) string {
	s.mu.Lock()
	record, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		return s.issueToken(domain.Identity{ID: uuid.NewString(), Username: username}, tokenTTL)
	}
	return s.issueToken(record.identity, tokenTTL)
}

// ExpiredTokenFor returns a correctly signed token whose expiry already
// passed, for exercising rejected-token paths.
func (s *Server) ExpiredTokenFor(username string) string {
	s.mu.Lock()
	record, ok := s.users[username]
	s.mu.Unlock()
	identity := domain.Identity{ID: uuid.NewString(), Username: username}
	if ok {
		identity = record.identity
	}
	return s.issueToken(identity, -time.Hour)
}
