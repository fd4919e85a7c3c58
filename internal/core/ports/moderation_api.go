package ports

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// SuggestionFilter narrows the moderation queue listing.
type SuggestionFilter struct {
	Status domain.SuggestionStatus
	Skip   int
	Limit  int
}

// ModerationAPI defines the review operations available to moderators.
type ModerationAPI interface {
	ListSuggestions(ctx context.Context, filter SuggestionFilter) ([]domain.Suggestion, error)
	ApproveSuggestion(ctx context.Context, id string) (domain.Suggestion, error)
	RejectSuggestion(ctx context.Context, id string) (domain.Suggestion, error)
}
