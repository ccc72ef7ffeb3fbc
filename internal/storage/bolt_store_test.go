package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresRecords(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		RecordTTL:       1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(filepath.Join(dir, "exported.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenRecord("users/person:1/abc")
	if err != nil || seen {
		t.Fatalf("expected unseen record, seen=%v err=%v", seen, err)
	}

	if err := store.MarkRecord("users/person:1/abc"); err != nil {
		t.Fatalf("MarkRecord: %v", err)
	}

	seen, err = store.SeenRecord("users/person:1/abc")
	if err != nil || !seen {
		t.Fatalf("expected record marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenRecord("users/person:1/abc")
	if err != nil {
		t.Fatalf("SeenRecord after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
	if n, err := store.Len(); err != nil || n != 0 {
		t.Fatalf("expected empty bucket after cleanup, got n=%d err=%v", n, err)
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "exported.db")

	first, err := NewStore(TypeBBolt, path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := first.MarkRecord("k"); err != nil {
		t.Fatalf("MarkRecord: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewStore(TypeBBolt, path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	seen, err := second.SeenRecord("k")
	if err != nil || !seen {
		t.Fatalf("expected persisted key, seen=%v err=%v", seen, err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkRecord("x"); err != nil {
		t.Fatalf("noop store MarkRecord: %v", err)
	}
	if seen, _ := store.SeenRecord("x"); seen {
		t.Fatalf("noop store must never report seen")
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore(TypeBBolt, " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
}
