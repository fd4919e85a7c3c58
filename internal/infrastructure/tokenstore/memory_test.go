package tokenstore

import (
	"context"
	"errors"
	"testing"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken before set, got %v", err)
	}

	if err := store.Set(ctx, "tok-123"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	token, err := store.Get(ctx)
	if err != nil || token != "tok-123" {
		t.Fatalf("unexpected get result: %q, %v", token, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}
