package api

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

// ListSuggestions fetches the moderation queue, optionally narrowed by
// status and paged with skip/limit.
func (c *Client) ListSuggestions(ctx context.Context, filter ports.SuggestionFilter) ([]domain.Suggestion, error) {
	q := pageQuery(filter.Skip, filter.Limit)
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}

	var out []domain.Suggestion
	if err := c.get(ctx, withQuery("/moderation/suggestions", q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveSuggestion applies the suggestion to its block and returns the
// reviewed suggestion.
func (c *Client) ApproveSuggestion(ctx context.Context, id string) (domain.Suggestion, error) {
	var out domain.Suggestion
	if err := c.post(ctx, "/moderation/suggestions/"+id+"/approve", nil, &out); err != nil {
		return domain.Suggestion{}, err
	}
	return out, nil
}

// RejectSuggestion declines the suggestion and returns it.
func (c *Client) RejectSuggestion(ctx context.Context, id string) (domain.Suggestion, error) {
	var out domain.Suggestion
	if err := c.post(ctx, "/moderation/suggestions/"+id+"/reject", nil, &out); err != nil {
		return domain.Suggestion{}, err
	}
	return out, nil
}
