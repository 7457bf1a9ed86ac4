package searchcache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"spotlyric/internal/config"
)

func TestOpenSweepsExpiredEntries(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheBackendJSON
	cfg.Cache.ExpirationDays = 30
	cfg.Paths.CacheFile = filepath.Join(dir, "cache.json")

	backend := NewFileBackend(cfg.Paths.CacheFile)
	now := time.Now()
	seed := map[string]Entry{
		Key("Old", "Artist"):   {Candidates: []Candidate{{URL: "https://a"}}, FetchedAt: now.Add(-40 * 24 * time.Hour)},
		Key("Fresh", "Artist"): {Candidates: []Candidate{{URL: "https://b"}}, FetchedAt: now.Add(-time.Hour)},
	}
	if err := backend.Save(context.Background(), seed); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	store, err := Open(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()

	entries, err := backend.Load(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected sweep to leave 1 entry, got %d", len(entries))
	}
	if _, ok := entries[Key("Fresh", "Artist")]; !ok {
		t.Fatalf("fresh entry was removed")
	}
}

func TestOpenKeepsExpiredEntriesUnderPreservePolicy(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheBackendJSON
	cfg.Cache.ExpirationDays = 30
	cfg.Cache.BookmarkPolicy = config.BookmarkPolicyPreserve
	cfg.Paths.CacheFile = filepath.Join(dir, "cache.json")

	backend := NewFileBackend(cfg.Paths.CacheFile)
	key := Key("Old", "Artist")
	seed := map[string]Entry{
		key: {
			Candidates: []Candidate{{URL: "https://a"}},
			FetchedAt:  time.Now().Add(-40 * 24 * time.Hour),
			Bookmarks:  map[string]bool{"https://a": true},
		},
	}
	if err := backend.Save(context.Background(), seed); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	store, err := Open(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()

	entry, ok := store.Peek(context.Background(), "Old", "Artist")
	if !ok {
		t.Fatal("expired entry was swept under the preserve policy")
	}
	if !entry.Bookmarks["https://a"] {
		t.Fatalf("bookmarks lost: %v", entry.Bookmarks)
	}
}

func TestOpenSQLiteBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheBackendSQLite
	cfg.Cache.ExpirationDays = 30
	cfg.Paths.CacheDB = filepath.Join(t.TempDir(), "cache.db")

	store, err := Open(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()

	if _, err := store.Put(context.Background(), "Song", "Artist", []Candidate{{URL: "https://x", Title: "X"}}, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := store.Get(context.Background(), "song", "ARTIST"); !ok {
		t.Fatalf("expected hit after put")
	}
}
