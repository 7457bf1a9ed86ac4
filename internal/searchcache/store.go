package searchcache

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"spotlyric/internal/logging"
	"spotlyric/internal/services"
)

// DefaultExpiration is the age at which cached results are discarded.
const DefaultExpiration = 30 * 24 * time.Hour

// Cached is what a successful Get returns.
type Cached struct {
	Candidates []Candidate
	Bookmarks  map[string]bool
	FetchedAt  time.Time
}

// Listing summarizes one entry for administrative views.
type Listing struct {
	Key        string
	Candidates int
	Bookmarked int
	FetchedAt  time.Time
	Expired    bool
}

// Store provides expiring, bookmarkable search results on top of a Backend.
// Every mutation is a full load-modify-save cycle performed under a single
// writer lock (and the backend's cross-process lock when it has one).
type Store struct {
	backend Backend
	logger  *slog.Logger
	horizon time.Duration
	now     func() time.Time
	mu      sync.Mutex
}

// Option customizes a Store.
type Option func(*Store)

// WithExpiration overrides the expiration horizon.
func WithExpiration(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.horizon = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore wraps backend.
func NewStore(backend Backend, logger *slog.Logger, opts ...Option) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	s := &Store{
		backend: backend,
		logger:  logging.NewComponentLogger(logger, "searchcache"),
		horizon: DefaultExpiration,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Expiration returns the configured horizon.
func (s *Store) Expiration() time.Duration { return s.horizon }

// Load reads the full mapping. Read or decode failures are logged and yield
// an empty mapping.
func (s *Store) Load(ctx context.Context) map[string]Entry {
	entries, err := s.backend.Load(ctx)
	if err != nil {
		logging.WarnWithContext(s.logger, "search cache unreadable", "cache_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete or repair the cache file; it is rewritten on the next save"),
			logging.String(logging.FieldImpact, "lookups proceed as cache misses"),
		)
		return map[string]Entry{}
	}
	if entries == nil {
		entries = map[string]Entry{}
	}
	return entries
}

// Save replaces the persisted mapping. Failures are logged and returned.
func (s *Store) Save(ctx context.Context, entries map[string]Entry) error {
	if err := s.backend.Save(ctx, entries); err != nil {
		logging.ErrorWithContext(s.logger, "search cache save failed", "cache_save_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions and free space for the cache location"),
		)
		return fmt.Errorf("save search cache: %w", err)
	}
	return nil
}

// update runs fn against the freshly loaded mapping while holding the writer
// lock and persists the result when fn reports a change.
func (s *Store) update(ctx context.Context, fn func(entries map[string]Entry) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if locker, ok := s.backend.(Locker); ok {
		unlock, err := locker.Lock(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(); err != nil {
				s.logger.Debug("cache unlock failed", logging.Error(err))
			}
		}()
	}

	entries := s.Load(ctx)
	changed, err := fn(entries)
	if err != nil || !changed {
		return err
	}
	return s.Save(ctx, entries)
}

// Get returns the fresh entry for the song. Expired entries are evicted and
// the eviction persisted before reporting a miss.
func (s *Store) Get(ctx context.Context, title, artist string) (Cached, bool) {
	key := Key(title, artist)
	var (
		result Cached
		found  bool
	)
	err := s.update(ctx, func(entries map[string]Entry) (bool, error) {
		entry, ok := entries[key]
		if !ok {
			return false, nil
		}
		if entry.Expired(s.now(), s.horizon) {
			delete(entries, key)
			s.logger.Debug("evicted expired cache entry",
				logging.String(logging.FieldCacheKey, key),
				logging.Duration("age", entry.Age(s.now())),
			)
			return true, nil
		}
		entry = entry.clone()
		result = Cached{Candidates: entry.Candidates, Bookmarks: entry.Bookmarks, FetchedAt: entry.FetchedAt}
		found = true
		return false, nil
	})
	if err != nil {
		s.logger.Warn("cache read failed", logging.String(logging.FieldCacheKey, key), logging.Error(err))
	}
	return result, found
}

// Peek returns the stored entry regardless of age without evicting it.
func (s *Store) Peek(ctx context.Context, title, artist string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.Load(ctx)[Key(title, artist)]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Put stores candidates and bookmarks for the song, replacing any previous
// entry wholesale, and returns the time the entry was stamped with.
func (s *Store) Put(ctx context.Context, title, artist string, candidates []Candidate, bookmarks map[string]bool) (time.Time, error) {
	key := Key(title, artist)
	var fetchedAt time.Time
	err := s.update(ctx, func(entries map[string]Entry) (bool, error) {
		fetchedAt = s.now()
		entries[key] = Entry{
			Candidates: append([]Candidate(nil), candidates...),
			FetchedAt:  fetchedAt,
			Bookmarks:  maps.Clone(bookmarks),
		}.clone()
		return true, nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return fetchedAt, nil
}

// ToggleBookmark flips the bookmark state of url within the song's entry and
// returns the new state. A missing entry yields services.ErrNotFound and
// nothing is created.
func (s *Store) ToggleBookmark(ctx context.Context, title, artist, url string) (bool, error) {
	key := Key(title, artist)
	url = strings.TrimSpace(url)
	if url == "" {
		return false, services.Wrap(services.ErrValidation, "searchcache", "toggle bookmark", "url is required", nil)
	}
	var state bool
	err := s.update(ctx, func(entries map[string]Entry) (bool, error) {
		entry, ok := entries[key]
		if !ok {
			return false, services.Wrap(services.ErrNotFound, "searchcache", "toggle bookmark", "no cached results for "+key, nil)
		}
		entry = entry.clone()
		state = !entry.Bookmarks[url]
		entry.Bookmarks[url] = state
		entries[key] = entry
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return state, nil
}

// SweepExpired removes every expired entry and returns how many were removed.
// The backend is only written when something was removed.
func (s *Store) SweepExpired(ctx context.Context) (int, error) {
	removed := 0
	err := s.update(ctx, func(entries map[string]Entry) (bool, error) {
		now := s.now()
		for key, entry := range entries {
			if entry.Expired(now, s.horizon) {
				delete(entries, key)
				removed++
			}
		}
		return removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("swept expired cache entries",
			logging.String(logging.FieldEventType, "cache_sweep"),
			logging.Int("removed", removed),
		)
	}
	return removed, nil
}

// Remove deletes the entry stored under key.
func (s *Store) Remove(ctx context.Context, key string) (bool, error) {
	var removed bool
	err := s.update(ctx, func(entries map[string]Entry) (bool, error) {
		if _, ok := entries[key]; !ok {
			return false, nil
		}
		delete(entries, key)
		removed = true
		return true, nil
	})
	return removed, err
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	var count int
	err := s.update(ctx, func(entries map[string]Entry) (bool, error) {
		count = len(entries)
		clear(entries)
		return count > 0, nil
	})
	return count, err
}

// List returns a summary of every stored entry, newest first.
func (s *Store) List(ctx context.Context) []Listing {
	s.mu.Lock()
	entries := s.Load(ctx)
	s.mu.Unlock()

	now := s.now()
	out := make([]Listing, 0, len(entries))
	for key, entry := range entries {
		bookmarked := 0
		for _, on := range entry.Bookmarks {
			if on {
				bookmarked++
			}
		}
		out = append(out, Listing{
			Key:        key,
			Candidates: len(entry.Candidates),
			Bookmarked: bookmarked,
			FetchedAt:  entry.FetchedAt,
			Expired:    entry.Expired(now, s.horizon),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FetchedAt.Equal(out[j].FetchedAt) {
			return out[i].FetchedAt.After(out[j].FetchedAt)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Lookup returns the raw entry stored under an already-normalized key.
func (s *Store) Lookup(ctx context.Context, key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.Load(ctx)[key]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}
