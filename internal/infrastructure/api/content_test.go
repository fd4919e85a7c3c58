package api

import (
	"context"
	"errors"
	"testing"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
)

func strPtr(s string) *string {
	return &s
}

func TestBlockLifecycle(t *testing.T) {
	backend, baseURL := newBackend(t)
	backend.SeedUser("maya", "pw", domain.RoleBuilder)
	backend.SeedUser("mod", "pw", domain.RoleModerator)
	builder := clientAs(t, backend, baseURL, "maya")
	ctx := context.Background()

	block, err := builder.CreateBlock(ctx, ports.CreateBlockInput{
		Title:     "Goroutines and Channels",
		Content:   "Start every goroutine with a clear owner.",
		BlockType: domain.BlockText,
	})
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if block.Slug != "goroutines-and-channels" {
		t.Fatalf("slug = %q", block.Slug)
	}

	got, err := builder.GetBlock(ctx, block.ID)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if got.Title != block.Title {
		t.Fatalf("round trip title = %q", got.Title)
	}

	updated, err := builder.UpdateBlock(ctx, block.ID, ports.UpdateBlockInput{
		Title: strPtr("Goroutines, Channels and Select"),
	})
	if err != nil {
		t.Fatalf("UpdateBlock: %v", err)
	}
	if updated.Title != "Goroutines, Channels and Select" {
		t.Fatalf("updated title = %q", updated.Title)
	}
	if updated.Content != block.Content {
		t.Fatalf("content should be untouched, got %q", updated.Content)
	}

	revisions, err := builder.ListRevisions(ctx, block.ID)
	if err != nil {
		t.Fatalf("ListRevisions: %v", err)
	}
	if len(revisions) != 1 || revisions[0].Title != "Goroutines and Channels" {
		t.Fatalf("revisions = %+v, want one with the prior title", revisions)
	}

	// Deleting needs moderate_content; the author alone cannot.
	if err := builder.DeleteBlock(ctx, block.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("builder delete: got %v, want ErrForbidden", err)
	}
	moderator := clientAs(t, backend, baseURL, "mod")
	if err := moderator.DeleteBlock(ctx, block.ID); err != nil {
		t.Fatalf("moderator delete: %v", err)
	}
	if _, err := builder.GetBlock(ctx, block.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("after delete: got %v, want ErrNotFound", err)
	}
}

func TestUpdateBlockRules(t *testing.T) {
	backend, baseURL := newBackend(t)
	backend.SeedUser("author", "pw", domain.RoleBuilder)
	backend.SeedUser("other", "pw", domain.RoleBuilder)
	backend.SeedUser("mod", "pw", domain.RoleModerator)
	author := clientAs(t, backend, baseURL, "author")
	ctx := context.Background()

	block, err := author.CreateBlock(ctx, ports.CreateBlockInput{
		Title:     "Error Wrapping",
		BlockType: domain.BlockText,
	})
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}

	other := clientAs(t, backend, baseURL, "other")
	_, err = other.UpdateBlock(ctx, block.ID, ports.UpdateBlockInput{Title: strPtr("Hijacked")})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign edit: got %v, want ErrForbidden", err)
	}

	moderator := clientAs(t, backend, baseURL, "mod")
	if _, err := moderator.UpdateBlock(ctx, block.ID, ports.UpdateBlockInput{Title: strPtr("Error Wrapping, Revised")}); err != nil {
		t.Fatalf("moderator edit: %v", err)
	}

	backend.LockBlock(block.ID)
	_, err = author.UpdateBlock(ctx, block.ID, ports.UpdateBlockInput{Title: strPtr("Locked Out")})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("locked edit: got %v, want ErrConflict", err)
	}
}

func TestSuggestEdit(t *testing.T) {
	backend, baseURL := newBackend(t)
	backend.SeedUser("guest", "pw", domain.RoleGuest)
	seeded := backend.SeedBlock("Slices", "A slice is a view over an array.")
	guest := clientAs(t, backend, baseURL, "guest")

	suggestion, err := guest.SuggestEdit(context.Background(), seeded.ID, ports.SuggestEditInput{
		Title:         "Slices",
		Content:       "A slice is a descriptor over a backing array.",
		ChangeSummary: "tighter wording",
	})
	if err != nil {
		t.Fatalf("SuggestEdit: %v", err)
	}
	if suggestion.Status != domain.SuggestionPending {
		t.Fatalf("status = %q, want pending", suggestion.Status)
	}
	if suggestion.BlockID != seeded.ID {
		t.Fatalf("block id = %q", suggestion.BlockID)
	}
}

func TestPathLifecycle(t *testing.T) {
	backend, baseURL := newBackend(t)
	backend.SeedUser("maya", "pw", domain.RoleBuilder)
	a := backend.SeedBlock("Basics", "variables and types")
	b := backend.SeedBlock("Functions", "multiple returns")
	c := backend.SeedBlock("Concurrency", "goroutines")
	builder := clientAs(t, backend, baseURL, "maya")
	ctx := context.Background()

	path, err := builder.CreatePath(ctx, ports.CreatePathInput{
		Title:    "Go from Zero",
		BlockIDs: []string{a.ID, b.ID, c.ID},
	})
	if err != nil {
		t.Fatalf("CreatePath: %v", err)
	}
	if got := path.BlockIDs(); len(got) != 3 || got[0] != a.ID {
		t.Fatalf("block order = %v", got)
	}

	reordered, err := builder.UpdatePath(ctx, path.ID, ports.UpdatePathInput{
		BlockIDs: []string{c.ID, a.ID, b.ID},
	})
	if err != nil {
		t.Fatalf("UpdatePath: %v", err)
	}
	if got := reordered.BlockIDs(); got[0] != c.ID || got[1] != a.ID || got[2] != b.ID {
		t.Fatalf("reordered = %v", got)
	}

	_, err = builder.CreatePath(ctx, ports.CreatePathInput{
		Title:    "Broken",
		BlockIDs: []string{"no-such-block"},
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 422 {
		t.Fatalf("unknown block id: got %v, want status 422", err)
	}
}

func TestUpdatePathTitleLeavesBlocksAlone(t *testing.T) {
	backend, baseURL := newBackend(t)
	backend.SeedUser("maya", "pw", domain.RoleBuilder)
	a := backend.SeedBlock("One", "")
	b := backend.SeedBlock("Two", "")
	seeded := backend.SeedPath("Numbers", a.ID, b.ID)
	builder := clientAs(t, backend, baseURL, "maya")
	ctx := context.Background()

	// A nil BlockIDs means no reorder; the blocks must survive.
	renamed, err := builder.UpdatePath(ctx, seeded.ID, ports.UpdatePathInput{
		Title: strPtr("Counting"),
	})
	if err != nil {
		t.Fatalf("UpdatePath: %v", err)
	}
	if renamed.Title != "Counting" || len(renamed.Blocks) != 2 {
		t.Fatalf("renamed = %+v", renamed)
	}

	// An explicit empty slice clears the path.
	cleared, err := builder.UpdatePath(ctx, seeded.ID, ports.UpdatePathInput{
		BlockIDs: []string{},
	})
	if err != nil {
		t.Fatalf("UpdatePath clear: %v", err)
	}
	if len(cleared.Blocks) != 0 {
		t.Fatalf("cleared path still has %d blocks", len(cleared.Blocks))
	}
}

func TestListBlocksPaging(t *testing.T) {
	backend, baseURL := newBackend(t)
	backend.SeedBlock("First", "")
	backend.SeedBlock("Second", "")
	backend.SeedBlock("Third", "")
	client := newTestClient(t, baseURL, "")
	ctx := context.Background()

	blocks, err := client.ListBlocks(ctx, 1, 1)
	if err != nil {
		t.Fatalf("ListBlocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Title != "Second" {
		t.Fatalf("page = %+v", blocks)
	}

	all, err := client.ListBlocks(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListBlocks all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
}
