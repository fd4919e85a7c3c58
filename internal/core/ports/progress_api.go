package ports

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// ProgressAPI tracks which content the signed-in user has mastered. Every
// operation acts on the account behind the session token; there is no way
// to read or change somebody else's progress.
type ProgressAPI interface {
	MasterBlock(ctx context.Context, blockID string) (domain.BlockMastery, error)
	UnmasterBlock(ctx context.Context, blockID string) error
	BlockMastery(ctx context.Context, blockID string) (domain.BlockMastery, error)
	MasterPath(ctx context.Context, pathID string) (domain.PathMastery, error)
	Progress(ctx context.Context) ([]domain.MasteryRecord, error)
}
