package tokenstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

func newRedisFixture(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := newRedisFixture(t)
	ctx := context.Background()

	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken before set, got %v", err)
	}

	if err := store.Set(ctx, "tok-shared"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	token, err := store.Get(ctx)
	if err != nil || token != "tok-shared" {
		t.Fatalf("unexpected get result: %q, %v", token, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := store.Get(ctx); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}

func TestRedisStore_CustomKey(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), Key: "profiles:work:token"})
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	if err := store.Set(ctx, "tok-work"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, err := mr.Get("profiles:work:token")
	if err != nil || got != "tok-work" {
		t.Fatalf("token not stored under the configured key: %q, %v", got, err)
	}
}

func TestRedisStore_ConnectFailure(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	if err == nil {
		t.Fatalf("expected connect error for unreachable Redis")
	}
}
