package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

// PathEditorService edits the block ordering of one learning path. Moves,
// additions and removals apply locally first; Save pushes the accumulated
// order to the server in a single update. A save in progress blocks further
// saves but not further edits.
type PathEditorService struct {
	api    ports.ContentAPI
	logger zerolog.Logger

	mu     sync.Mutex
	path   *domain.Path
	dirty  bool
	saving bool

	blocks *PendingList[domain.Block]
}

func NewPathEditorService(api ports.ContentAPI, logger zerolog.Logger) *PathEditorService {
	return &PathEditorService{
		api:    api,
		logger: logger,
		blocks: NewPendingList(func(b domain.Block) string { return b.ID }),
	}
}

// Load fetches the path and seeds the editable block list from it. Any
// unsaved edits from a previous path are discarded.
func (s *PathEditorService) Load(ctx context.Context, pathID string) (domain.Path, error) {
	path, err := s.api.GetPath(ctx, pathID)
	if err != nil {
		return domain.Path{}, err
	}

	s.blocks.CompleteLoad(s.blocks.BeginLoad(), path.Blocks)

	s.mu.Lock()
	s.path = &path
	s.dirty = false
	s.mu.Unlock()
	return path, nil
}

// MoveBlock shifts the block one position in the given direction. Boundary
// moves are a no-op. Reports whether the order changed.
func (s *PathEditorService) MoveBlock(id string, dir MoveDirection) bool {
	if !s.blocks.Move(id, dir) {
		return false
	}
	s.markDirty()
	return true
}

// AppendBlock fetches the block and adds it to the end of the path.
func (s *PathEditorService) AppendBlock(ctx context.Context, blockID string) error {
	block, err := s.api.GetBlock(ctx, blockID)
	if err != nil {
		return err
	}
	if !s.blocks.Append(block) {
		return domain.ErrConflict
	}
	s.markDirty()
	return nil
}

// RemoveBlock drops the block from the path locally. The block itself is
// not deleted. Reports whether the path changed.
func (s *PathEditorService) RemoveBlock(id string) bool {
	if !s.blocks.Remove(id) {
		return false
	}
	s.markDirty()
	return true
}

// Save pushes the current block order to the server and reseeds the editor
// from the response. Rejected with domain.ErrAlreadyInFlight while another
// save is running; on failure the local edits stay for a retry.
func (s *PathEditorService) Save(ctx context.Context) (domain.Path, error) {
	s.mu.Lock()
	if s.path == nil {
		s.mu.Unlock()
		return domain.Path{}, domain.ErrNotFound
	}
	if s.saving {
		s.mu.Unlock()
		return domain.Path{}, domain.ErrAlreadyInFlight
	}
	s.saving = true
	pathID := s.path.ID
	s.mu.Unlock()

	blocks := s.blocks.Items()
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}

	updated, err := s.api.UpdatePath(ctx, pathID, ports.UpdatePathInput{BlockIDs: ids})

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("path_id", pathID).Msg("path save failed")
		return domain.Path{}, err
	}
	s.path = &updated
	s.dirty = false
	s.mu.Unlock()

	s.blocks.CompleteLoad(s.blocks.BeginLoad(), updated.Blocks)
	s.logger.Info().Str("path_id", pathID).Int("blocks", len(ids)).Msg("path saved")
	return updated, nil
}

// Blocks returns the working block order.
func (s *PathEditorService) Blocks() []domain.Block {
	return s.blocks.Items()
}

// Dirty reports whether local edits have not been saved yet.
func (s *PathEditorService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Path returns the last server-confirmed state of the loaded path.
func (s *PathEditorService) Path() (domain.Path, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == nil {
		return domain.Path{}, false
	}
	return *s.path, true
}

func (s *PathEditorService) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}
