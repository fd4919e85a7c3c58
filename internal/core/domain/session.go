package domain

// SessionState is the resolution status of the client session.
type SessionState string

const (
	// SessionUnresolved means no resolution attempt has completed yet.
	SessionUnresolved SessionState = "unresolved"
	// SessionAuthenticated means a token was validated and an Identity is held.
	SessionAuthenticated SessionState = "authenticated"
	// SessionAnonymous means no valid token exists; any stored one was discarded.
	SessionAnonymous SessionState = "anonymous"
)
