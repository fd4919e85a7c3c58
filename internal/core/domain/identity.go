package domain

// Identity is the authenticated principal resolved from the backend.
// Exactly one Identity is active per session; it is replaced wholesale on
// re-resolution and never mutated in place.
type Identity struct {
	ID         string         `json:"id"`
	Username   string         `json:"username"`
	Email      string         `json:"email"`
	FullName   string         `json:"full_name,omitempty"`
	Role       Role           `json:"role"`
	IsActive   bool           `json:"is_active"`
	IsVerified bool           `json:"is_verified"`
	XP         int            `json:"xp"`
	Level      int            `json:"level"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// DisplayName returns the full name when set, falling back to the username.
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Username
}
