package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreMarkOnce(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := store.MarkOnce(ctx, "evt-1", time.Minute)
	if err != nil || !first {
		t.Fatalf("first MarkOnce = %v, %v; want true, nil", first, err)
	}

	again, _ := store.MarkOnce(ctx, "evt-1", time.Minute)
	if again {
		t.Error("second MarkOnce within ttl should report false")
	}

	now = now.Add(2 * time.Minute)
	expired, _ := store.MarkOnce(ctx, "evt-1", time.Minute)
	if !expired {
		t.Error("MarkOnce after ttl should report true")
	}
}

func TestMemoryStoreRelease(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if first, _ := store.MarkOnce(ctx, "evt-2", time.Hour); !first {
		t.Fatal("first MarkOnce should report true")
	}
	if err := store.Release(ctx, "evt-2"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if again, _ := store.MarkOnce(ctx, "evt-2", time.Hour); !again {
		t.Error("MarkOnce after Release should report true")
	}
}
