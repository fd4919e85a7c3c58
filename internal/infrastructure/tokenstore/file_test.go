package tokenstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken before set, got %v", err)
	}

	if err := store.Set(ctx, "tok-123"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	token, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token: %q", token)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("token file must be owner-only, got %v", perm)
	}
}

func TestFileStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clearing an absent token should be a no-op, got %v", err)
	}

	if err := store.Set(ctx, "tok-123"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected token file removed, got %v", err)
	}
}

func TestFileStore_EmptyAndCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := os.WriteFile(path, []byte(`{"access_token":""}`), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("empty token should read as absent, got %v", err)
	}

	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := store.Get(ctx); err == nil || errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("corrupt file must surface a real error, got %v", err)
	}
}
