package api

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"spotlyric/internal/searchcache"
	"spotlyric/internal/services"
)

// CacheStore abstracts the search cache operations needed by the API.
type CacheStore interface {
	List(ctx context.Context) []searchcache.Listing
	Lookup(ctx context.Context, key string) (searchcache.Entry, bool)
	Remove(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) (int, error)
	SweepExpired(ctx context.Context) (int, error)
	ToggleBookmark(ctx context.Context, title, artist, url string) (bool, error)
	Expiration() time.Duration
}

// CacheService exposes cache administration returning API DTOs.
type CacheService struct {
	store CacheStore
	now   func() time.Time
}

// NewCacheService constructs a CacheService around the provided store.
func NewCacheService(store CacheStore) *CacheService {
	if store == nil {
		return nil
	}
	return &CacheService{store: store, now: time.Now}
}

// List returns every cached song, newest first.
func (s *CacheService) List(ctx context.Context) CacheListResponse {
	listings := s.store.List(ctx)
	entries := make([]CacheEntry, 0, len(listings))
	for _, l := range listings {
		entries = append(entries, FromListing(l))
	}
	return CacheListResponse{Entries: entries, Expiration: s.store.Expiration().String()}
}

// Describe returns one cached song by key. A key may also be given as
// "title_artist" in any case; it is normalized before lookup.
func (s *CacheService) Describe(ctx context.Context, key string) (*CacheEntryDetail, error) {
	key = NormalizeKey(key)
	entry, ok := s.store.Lookup(ctx, key)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "api", "describe cache entry", "no cache entry for "+key, nil)
	}
	detail := FromEntry(key, entry, s.now(), s.store.Expiration())
	return &detail, nil
}

// Remove deletes entries one by one so each key reports removed or not_found.
func (s *CacheService) Remove(ctx context.Context, keys ...string) (RemoveResponse, error) {
	resp := RemoveResponse{Keys: make([]RemoveKeyResult, 0, len(keys))}
	for _, key := range keys {
		key = NormalizeKey(key)
		removed, err := s.store.Remove(ctx, key)
		if err != nil {
			return RemoveResponse{}, err
		}
		outcome := RemoveOutcomeNotFound
		if removed {
			outcome = RemoveOutcomeRemoved
			resp.RemovedCount++
		}
		resp.Keys = append(resp.Keys, RemoveKeyResult{Key: key, Outcome: outcome})
	}
	return resp, nil
}

// Clear removes every entry.
func (s *CacheService) Clear(ctx context.Context) (int, error) {
	return s.store.Clear(ctx)
}

// Sweep removes expired entries.
func (s *CacheService) Sweep(ctx context.Context) (CacheSweepResponse, error) {
	removed, err := s.store.SweepExpired(ctx)
	if err != nil {
		return CacheSweepResponse{}, err
	}
	return CacheSweepResponse{Removed: removed}, nil
}

// ToggleBookmark flips the bookmark on req.URL.
func (s *CacheService) ToggleBookmark(ctx context.Context, req BookmarkRequest) (BookmarkResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return BookmarkResponse{}, services.Wrap(services.ErrValidation, "api", "toggle bookmark", "title is required", nil)
	}
	state, err := s.store.ToggleBookmark(ctx, req.Title, req.Artist, req.URL)
	if err != nil {
		return BookmarkResponse{}, err
	}
	return BookmarkResponse{URL: strings.TrimSpace(req.URL), Bookmarked: state}, nil
}

// NormalizeKey case-folds a raw "title_artist" key the way searchcache.Key
// does, so keys can be typed in any case.
func NormalizeKey(key string) string {
	return cases.Fold().String(strings.TrimSpace(key))
}
