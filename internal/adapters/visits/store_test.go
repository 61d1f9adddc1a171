package visits

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "visits.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndSummary(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	a := HashVisitor("10.0.0.1", "salt")
	b := HashVisitor("10.0.0.2", "salt")
	for _, v := range []struct{ hash, path string }{{a, "/"}, {a, "/"}, {b, "/"}} {
		if err := store.Record(ctx, v.hash, v.path); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	views, visitors, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if views != 3 {
		t.Errorf("expected 3 views, got %d", views)
	}
	if visitors != 2 {
		t.Errorf("expected 2 visitors, got %d", visitors)
	}
}

func TestSummaryEmpty(t *testing.T) {
	views, visitors, err := openTestStore(t).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if views != 0 || visitors != 0 {
		t.Errorf("expected empty summary, got %d/%d", views, visitors)
	}
}

func TestTopPaths(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, path := range []string{"/", "/contact", "/", "/"} {
		if err := store.Record(ctx, "v", path); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	top, err := store.TopPaths(ctx, 5)
	if err != nil {
		t.Fatalf("TopPaths failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(top))
	}
	if top[0].Path != "/" || top[0].Views != 3 {
		t.Errorf("unexpected top path %+v", top[0])
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now.Add(-48 * time.Hour) }
	if err := store.Record(ctx, "old", "/"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.now = func() time.Time { return now }
	if err := store.Record(ctx, "new", "/"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 pruned visit, got %d", removed)
	}
	views, _, _ := store.Summary(ctx)
	if views != 1 {
		t.Errorf("expected 1 remaining view, got %d", views)
	}
}

func TestHashVisitor(t *testing.T) {
	a := HashVisitor("10.0.0.1", "salt")
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
	if a != HashVisitor("10.0.0.1", "salt") {
		t.Error("hash should be stable for the same input")
	}
	if a == HashVisitor("10.0.0.1", "pepper") {
		t.Error("hash should depend on the salt")
	}
	if a == "10.0.0.1" {
		t.Error("hash must not be the raw address")
	}
}
