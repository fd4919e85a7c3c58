package ports

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// SearchQuery carries a full text query with paging and an optional level
// restriction (blocks only, paths only, or both when empty).
type SearchQuery struct {
	Query  string
	Limit  int
	Offset int
	Level  domain.NodeLevel
}

// SearchAPI defines the full text search operations.
type SearchAPI interface {
	Search(ctx context.Context, q SearchQuery) (domain.SearchResult, error)
	Reindex(ctx context.Context) error
}
