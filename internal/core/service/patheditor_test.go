package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

type stubContentAPI struct {
	ports.ContentAPI

	path      domain.Path
	getErr    error
	blocks    map[string]domain.Block
	updateErr error
	updates   []ports.UpdatePathInput
}

func (a *stubContentAPI) GetPath(_ context.Context, id string) (domain.Path, error) {
	if a.getErr != nil {
		return domain.Path{}, a.getErr
	}
	if a.path.ID != id {
		return domain.Path{}, domain.ErrNotFound
	}
	return a.path, nil
}

func (a *stubContentAPI) GetBlock(_ context.Context, id string) (domain.Block, error) {
	block, ok := a.blocks[id]
	if !ok {
		return domain.Block{}, domain.ErrNotFound
	}
	return block, nil
}

func (a *stubContentAPI) UpdatePath(_ context.Context, id string, input ports.UpdatePathInput) (domain.Path, error) {
	if a.updateErr != nil {
		return domain.Path{}, a.updateErr
	}
	a.updates = append(a.updates, input)
	known := make(map[string]domain.Block)
	for _, b := range a.path.Blocks {
		known[b.ID] = b
	}
	for blockID, b := range a.blocks {
		known[blockID] = b
	}
	updated := domain.Path{ID: id, Slug: a.path.Slug, Title: a.path.Title}
	for _, blockID := range input.BlockIDs {
		if b, ok := known[blockID]; ok {
			updated.Blocks = append(updated.Blocks, b)
		}
	}
	a.path = updated
	return updated, nil
}

func pathFixture() domain.Path {
	return domain.Path{
		ID:    "p1",
		Slug:  "intro-to-go",
		Title: "Intro to Go",
		Blocks: []domain.Block{
			{ID: "a", Title: "Basics", BlockType: domain.BlockText},
			{ID: "b", Title: "Types", BlockType: domain.BlockText},
			{ID: "c", Title: "Slices", BlockType: domain.BlockCode},
		},
	}
}

func editorBlockIDs(svc *PathEditorService) []string {
	blocks := svc.Blocks()
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

func TestPathEditorService_LoadAndMove(t *testing.T) {
	api := &stubContentAPI{path: pathFixture()}
	svc := NewPathEditorService(api, zerolog.Nop())

	if _, err := svc.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if svc.Dirty() {
		t.Fatalf("freshly loaded path must not be dirty")
	}

	if svc.MoveBlock("a", MoveUp) {
		t.Fatalf("moving the first block up must be a no-op")
	}
	if svc.Dirty() {
		t.Fatalf("a no-op move must not mark the path dirty")
	}

	if !svc.MoveBlock("a", MoveDown) {
		t.Fatalf("expected move down to swap")
	}
	if got := editorBlockIDs(svc); !sameIDs(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if !svc.Dirty() {
		t.Fatalf("reorder must mark the path dirty")
	}
}

func TestPathEditorService_RemoveBlock(t *testing.T) {
	api := &stubContentAPI{path: pathFixture()}
	svc := NewPathEditorService(api, zerolog.Nop())
	if _, err := svc.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if !svc.RemoveBlock("b") {
		t.Fatalf("expected removal")
	}
	if got := editorBlockIDs(svc); !sameIDs(got, []string{"a", "c"}) {
		t.Fatalf("unexpected order after removal: %v", got)
	}
	if svc.RemoveBlock("ghost") {
		t.Fatalf("removing an unknown block must be a no-op")
	}
}

func TestPathEditorService_AppendBlock(t *testing.T) {
	api := &stubContentAPI{
		path:   pathFixture(),
		blocks: map[string]domain.Block{"d": {ID: "d", Title: "Maps", BlockType: domain.BlockText}},
	}
	svc := NewPathEditorService(api, zerolog.Nop())
	if _, err := svc.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := svc.AppendBlock(context.Background(), "d"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if got := editorBlockIDs(svc); !sameIDs(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("unexpected order after append: %v", got)
	}

	if err := svc.AppendBlock(context.Background(), "d"); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict on duplicate append, got %v", err)
	}
	if err := svc.AppendBlock(context.Background(), "ghost"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown block, got %v", err)
	}
}

func TestPathEditorService_Save(t *testing.T) {
	api := &stubContentAPI{path: pathFixture()}
	svc := NewPathEditorService(api, zerolog.Nop())
	if _, err := svc.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	svc.MoveBlock("c", MoveUp)
	updated, err := svc.Save(context.Background())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(api.updates) != 1 || !sameIDs(api.updates[0].BlockIDs, []string{"a", "c", "b"}) {
		t.Fatalf("unexpected update payload: %+v", api.updates)
	}
	if svc.Dirty() {
		t.Fatalf("saved path must not stay dirty")
	}
	if got := updated.BlockIDs(); !sameIDs(got, []string{"a", "c", "b"}) {
		t.Fatalf("unexpected confirmed order: %v", got)
	}
}

func TestPathEditorService_SaveFailureKeepsEdits(t *testing.T) {
	api := &stubContentAPI{path: pathFixture()}
	svc := NewPathEditorService(api, zerolog.Nop())
	if _, err := svc.Load(context.Background(), "p1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	svc.MoveBlock("c", MoveUp)
	api.updateErr = errors.New("path locked")
	if _, err := svc.Save(context.Background()); err == nil {
		t.Fatalf("expected save error surfaced")
	}
	if !svc.Dirty() {
		t.Fatalf("failed save must keep the path dirty for retry")
	}
	if got := editorBlockIDs(svc); !sameIDs(got, []string{"a", "c", "b"}) {
		t.Fatalf("failed save must keep local edits: %v", got)
	}
}

func TestPathEditorService_SaveWithoutLoad(t *testing.T) {
	svc := NewPathEditorService(&stubContentAPI{}, zerolog.Nop())

	if _, err := svc.Save(context.Background()); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound without a loaded path, got %v", err)
	}
}
