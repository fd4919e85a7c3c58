package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

// Search runs a full text query against the backend index.
func (c *Client) Search(ctx context.Context, query ports.SearchQuery) (domain.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query.Query)
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		q.Set("offset", strconv.Itoa(query.Offset))
	}
	if query.Level != "" {
		q.Set("level", string(query.Level))
	}

	var out domain.SearchResult
	if err := c.get(ctx, withQuery("/search", q), &out); err != nil {
		return domain.SearchResult{}, err
	}
	return out, nil
}

// Reindex asks the backend to rebuild the search index. Admin only.
func (c *Client) Reindex(ctx context.Context) error {
	return c.post(ctx, "/search/reindex", nil, nil)
}
