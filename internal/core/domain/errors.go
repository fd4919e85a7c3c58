package domain

import "errors"

// Sentinel errors shared by services and the API adapter. The adapter maps
// HTTP statuses onto these so callers branch with errors.Is instead of
// inspecting transport details.
var ErrAlreadyInFlight = errors.New("action already in flight")

// ErrNoToken is returned by token stores when no token is saved.
var ErrNoToken = errors.New("no stored token")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUnauthorized = errors.New("unauthorized")
var ErrForbidden = errors.New("access forbidden")
var ErrNotFound = errors.New("not found")
var ErrConflict = errors.New("conflict")
var ErrUnavailable = errors.New("service unavailable")
