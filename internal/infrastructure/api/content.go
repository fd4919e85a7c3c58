package api

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

func (c *Client) ListBlocks(ctx context.Context, skip, limit int) ([]domain.Block, error) {
	var out []domain.Block
	if err := c.get(ctx, withQuery("/blocks", pageQuery(skip, limit)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBlock(ctx context.Context, id string) (domain.Block, error) {
	var out domain.Block
	if err := c.get(ctx, "/blocks/"+id, &out); err != nil {
		return domain.Block{}, err
	}
	return out, nil
}

func (c *Client) CreateBlock(ctx context.Context, input ports.CreateBlockInput) (domain.Block, error) {
	if err := checkInput(input); err != nil {
		return domain.Block{}, err
	}
	var out domain.Block
	if err := c.post(ctx, "/blocks", input, &out); err != nil {
		return domain.Block{}, err
	}
	return out, nil
}

func (c *Client) UpdateBlock(ctx context.Context, id string, input ports.UpdateBlockInput) (domain.Block, error) {
	var out domain.Block
	if err := c.put(ctx, "/blocks/"+id, input, &out); err != nil {
		return domain.Block{}, err
	}
	return out, nil
}

func (c *Client) DeleteBlock(ctx context.Context, id string) error {
	return c.delete(ctx, "/blocks/"+id)
}

// ListRevisions returns the edit history of a block, newest first.
func (c *Client) ListRevisions(ctx context.Context, blockID string) ([]domain.Revision, error) {
	var out []domain.Revision
	if err := c.get(ctx, "/blocks/"+blockID+"/revisions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SuggestEdit proposes an edit to somebody else's block. The proposal
// lands in the moderation queue as a pending suggestion.
func (c *Client) SuggestEdit(ctx context.Context, blockID string, input ports.SuggestEditInput) (domain.Suggestion, error) {
	if err := checkInput(input); err != nil {
		return domain.Suggestion{}, err
	}
	var out domain.Suggestion
	if err := c.post(ctx, "/blocks/"+blockID+"/suggestions", input, &out); err != nil {
		return domain.Suggestion{}, err
	}
	return out, nil
}

func (c *Client) ListPaths(ctx context.Context, skip, limit int) ([]domain.Path, error) {
	var out []domain.Path
	if err := c.get(ctx, withQuery("/paths", pageQuery(skip, limit)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPath(ctx context.Context, id string) (domain.Path, error) {
	var out domain.Path
	if err := c.get(ctx, "/paths/"+id, &out); err != nil {
		return domain.Path{}, err
	}
	return out, nil
}

func (c *Client) CreatePath(ctx context.Context, input ports.CreatePathInput) (domain.Path, error) {
	if err := checkInput(input); err != nil {
		return domain.Path{}, err
	}
	var out domain.Path
	if err := c.post(ctx, "/paths", input, &out); err != nil {
		return domain.Path{}, err
	}
	return out, nil
}

func (c *Client) UpdatePath(ctx context.Context, id string, input ports.UpdatePathInput) (domain.Path, error) {
	var out domain.Path
	if err := c.put(ctx, "/paths/"+id, input, &out); err != nil {
		return domain.Path{}, err
	}
	return out, nil
}

func (c *Client) DeletePath(ctx context.Context, id string) error {
	return c.delete(ctx, "/paths/"+id)
}
