package domain

import "time"

// SuggestionStatus is the review lifecycle state of an edit suggestion.
type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionApproved SuggestionStatus = "approved"
	SuggestionRejected SuggestionStatus = "rejected"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s SuggestionStatus) Valid() bool {
	switch s {
	case SuggestionPending, SuggestionApproved, SuggestionRejected:
		return true
	}
	return false
}

// Suggestion is a proposed edit to a block awaiting moderation. Approving
// applies it to the target block and records a revision; rejecting only
// flips the status.
type Suggestion struct {
	ID            string           `json:"id"`
	BlockID       string           `json:"block_id"`
	Title         string           `json:"title"`
	Content       string           `json:"content,omitempty"`
	ChangeSummary string           `json:"change_summary"`
	Status        SuggestionStatus `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	CreatedByID   string           `json:"created_by_id,omitempty"`
}
