package ports

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// CreateBlockInput is the payload for creating a knowledge block.
type CreateBlockInput struct {
	Title     string           `json:"title" validate:"required,min=1,max=200"`
	Content   string           `json:"content"`
	BlockType domain.BlockType `json:"block_type" validate:"required"`
}

// UpdateBlockInput carries the fields of a block edit. Nil fields are left
// untouched by the server.
type UpdateBlockInput struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// SuggestEditInput is the payload for proposing an edit to somebody else's
// block. It becomes a pending suggestion in the moderation queue.
type SuggestEditInput struct {
	Title         string `json:"title" validate:"required"`
	Content       string `json:"content" validate:"required"`
	ChangeSummary string `json:"change_summary" validate:"required,max=500"`
}

// CreatePathInput is the payload for creating a learning path.
type CreatePathInput struct {
	Title    string   `json:"title" validate:"required,min=1,max=200"`
	BlockIDs []string `json:"block_ids,omitempty"`
}

// UpdatePathInput carries the fields of a path edit. Nil fields are left
// untouched; BlockIDs is the full new ordering and stays nil (not empty)
// when the order did not change.
type UpdatePathInput struct {
	Title    *string  `json:"title,omitempty"`
	BlockIDs []string `json:"block_ids"`
}

// ContentAPI defines the block and path operations of the knowledge base.
type ContentAPI interface {
	ListBlocks(ctx context.Context, skip, limit int) ([]domain.Block, error)
	GetBlock(ctx context.Context, id string) (domain.Block, error)
	CreateBlock(ctx context.Context, input CreateBlockInput) (domain.Block, error)
	UpdateBlock(ctx context.Context, id string, input UpdateBlockInput) (domain.Block, error)
	DeleteBlock(ctx context.Context, id string) error
	ListRevisions(ctx context.Context, blockID string) ([]domain.Revision, error)
	SuggestEdit(ctx context.Context, blockID string, input SuggestEditInput) (domain.Suggestion, error)

	ListPaths(ctx context.Context, skip, limit int) ([]domain.Path, error)
	GetPath(ctx context.Context, id string) (domain.Path, error)
	CreatePath(ctx context.Context, input CreatePathInput) (domain.Path, error)
	UpdatePath(ctx context.Context, id string, input UpdatePathInput) (domain.Path, error)
	DeletePath(ctx context.Context, id string) error
}
