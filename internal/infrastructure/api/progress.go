package api

import (
	"context"
	"time"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// MasterBlock marks a block as worked through by the current user. Marking
// an already mastered block is not an error; the original timestamp is kept.
func (c *Client) MasterBlock(ctx context.Context, blockID string) (domain.BlockMastery, error) {
	var out struct {
		MasteredAt time.Time `json:"mastered_at"`
	}
	if err := c.post(ctx, "/blocks/"+blockID+"/master", nil, &out); err != nil {
		return domain.BlockMastery{}, err
	}
	return domain.BlockMastery{Mastered: true, MasteredAt: out.MasteredAt}, nil
}

// UnmasterBlock removes the mastery mark again. ErrNotFound when the block
// was never marked.
func (c *Client) UnmasterBlock(ctx context.Context, blockID string) error {
	return c.delete(ctx, "/blocks/"+blockID+"/master")
}

// BlockMastery reports whether the current user has mastered the block.
func (c *Client) BlockMastery(ctx context.Context, blockID string) (domain.BlockMastery, error) {
	var out domain.BlockMastery
	if err := c.get(ctx, "/blocks/"+blockID+"/progress", &out); err != nil {
		return domain.BlockMastery{}, err
	}
	return out, nil
}

// MasterPath marks a path and every block on it in one sweep.
func (c *Client) MasterPath(ctx context.Context, pathID string) (domain.PathMastery, error) {
	var out domain.PathMastery
	if err := c.post(ctx, "/paths/"+pathID+"/master", nil, &out); err != nil {
		return domain.PathMastery{}, err
	}
	return out, nil
}

// Progress lists everything the current user has mastered so far.
func (c *Client) Progress(ctx context.Context) ([]domain.MasteryRecord, error) {
	var out []domain.MasteryRecord
	if err := c.get(ctx, "/users/me/progress", &out); err != nil {
		return nil, err
	}
	return out, nil
}
