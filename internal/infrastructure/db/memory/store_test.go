package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99minutos/user-auth-ui/internal/core/domain"
)

func TestCredentialStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(0)

	if _, err := s.Get(ctx, "k"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("expected v, got %q (%v)", got, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
}

func TestCredentialStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "k", "v")
	now = now.Add(2 * time.Minute)

	if _, err := s.Get(ctx, "k"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected expired entry to be gone, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read")
	}
}

func TestCredentialStore_ExpiryKeepsConcurrentSet(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_ = s.Set(ctx, "k", "old")
	now = now.Add(2 * time.Minute)

	// The first clock read happens inside Get, between the expiry check and
	// the eviction. A fresh Set lands in that window.
	refreshed := false
	s.now = func() time.Time {
		if !refreshed {
			refreshed = true
			_ = s.Set(ctx, "k", "new")
		}
		return now
	}

	if _, err := s.Get(ctx, "k"); !errors.Is(err, domain.ErrCredentialNotFound) {
		t.Fatalf("expected the expired read to miss, got %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || got != "new" {
		t.Fatalf("expected refreshed value to survive eviction, got %q (%v)", got, err)
	}
}
