package lyrics

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spotlyric/internal/logging"
	"spotlyric/internal/search"
	"spotlyric/internal/search/serpapi"
	"spotlyric/internal/searchcache"
	"spotlyric/internal/services"
	"spotlyric/internal/sources"
)

type fakeProvider struct {
	name    string
	hits    []search.Hit
	err     error
	calls   int
	queries []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(_ context.Context, query string, _ int) ([]search.Hit, error) {
	f.calls++
	f.queries = append(f.queries, query)
	return f.hits, f.err
}

func newStore() *searchcache.Store {
	return searchcache.NewStore(searchcache.NewMemoryBackend(), nil)
}

func TestLookupColdThenWarm(t *testing.T) {
	provider := &fakeProvider{name: "fake", hits: []search.Hit{
		{URL: "https://genius.com/ed-sheeran-shape-of-you-lyrics", Title: "Shape of You Lyrics"},
		{URL: "https://lyricstranslate.com/en/shape-you.html"},
	}}
	finder := NewFinder(newStore(), []search.Provider{provider})

	cold, err := finder.Lookup(context.Background(), "Shape of You", "Ed Sheeran")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if cold.FromCache {
		t.Fatalf("first lookup should not be served from cache")
	}
	if len(cold.Candidates) != 2 || provider.calls != 1 {
		t.Fatalf("expected 2 candidates from one call, got %d candidates and %d calls", len(cold.Candidates), provider.calls)
	}
	if provider.queries[0] != "Shape of You Ed Sheeran lyrics translation" {
		t.Fatalf("unexpected query %q", provider.queries[0])
	}
	if cold.Candidates[1].Title != "Shape You" {
		t.Fatalf("expected slug title fallback, got %q", cold.Candidates[1].Title)
	}

	warm, err := finder.Lookup(context.Background(), "shape of you", "ED SHEERAN")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !warm.FromCache {
		t.Fatalf("second lookup should be served from cache")
	}
	if provider.calls != 1 {
		t.Fatalf("expected no additional provider calls, got %d", provider.calls)
	}
	if warm.Candidates[0].URL != cold.Candidates[0].URL {
		t.Fatalf("cached order differs: %+v", warm.Candidates)
	}
}

func TestLookupFallsThroughFailingAndEmptyProviders(t *testing.T) {
	failing := &fakeProvider{name: "serpapi", err: services.Wrap(services.ErrProviderUnavailable, "serpapi", "search", "quota exhausted", nil)}
	empty := &fakeProvider{name: "duckduckgo"}
	working := &fakeProvider{name: "google", hits: []search.Hit{{URL: "https://example.com/song-lyrics"}}}
	finder := NewFinder(newStore(), []search.Provider{failing, empty, working})

	result, err := finder.Lookup(context.Background(), "Song", "Artist")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if result.Provider != "google" {
		t.Fatalf("expected google to supply results, got %q", result.Provider)
	}
	if failing.calls != 1 || empty.calls != 1 || working.calls != 1 {
		t.Fatalf("unexpected call counts %d/%d/%d", failing.calls, empty.calls, working.calls)
	}
}

func TestLookupAllProvidersExhaustedCachesNothing(t *testing.T) {
	provider := &fakeProvider{name: "fake", err: errors.New("boom")}
	store := newStore()
	finder := NewFinder(store, []search.Provider{provider})

	result, err := finder.Lookup(context.Background(), "Song", "Artist")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(result.Candidates) != 0 || result.Candidates == nil || result.Bookmarks == nil {
		t.Fatalf("expected empty non-nil result, got %+v", result)
	}
	if _, ok := store.Peek(context.Background(), "Song", "Artist"); ok {
		t.Fatalf("empty result must not be cached")
	}

	if _, err := finder.Lookup(context.Background(), "Song", "Artist"); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if provider.calls != 2 {
		t.Fatalf("expected a retry on the next lookup, got %d calls", provider.calls)
	}
}

func TestLookupProviderFailureLogOmitsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	const key = "SUPERSECRETKEY"
	provider, err := serpapi.New(serpapi.Config{
		APIKey:     key,
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 50 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("serpapi.New: %v", err)
	}
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	finder := NewFinder(newStore(), []search.Provider{provider}, WithLogger(logger))

	if _, err := finder.Lookup(context.Background(), "Song", "Artist"); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "provider_failed") {
		t.Fatalf("expected provider failure to be logged, got %s", buf.String())
	}
	if strings.Contains(buf.String(), key) {
		t.Fatalf("api key leaked into logs: %s", buf.String())
	}
}

func TestLookupDropsRepeatedAndEmptyURLs(t *testing.T) {
	provider := &fakeProvider{name: "fake", hits: []search.Hit{
		{URL: "https://genius.com/a", Title: "First"},
		{URL: "  "},
		{URL: "https://lyricstranslate.com/en/a"},
		{URL: "https://genius.com/a", Title: "Again"},
	}}
	finder := NewFinder(newStore(), []search.Provider{provider})

	result, err := finder.Lookup(context.Background(), "A", "Artist")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", result.Candidates)
	}
	if result.Candidates[0].URL != "https://genius.com/a" || result.Candidates[0].Title != "First" {
		t.Fatalf("expected first occurrence kept in place, got %+v", result.Candidates[0])
	}
	if result.Candidates[1].URL != "https://lyricstranslate.com/en/a" {
		t.Fatalf("unexpected order %+v", result.Candidates)
	}
}

func TestLookupRejectsEmptyTitle(t *testing.T) {
	finder := NewFinder(newStore(), nil)
	_, err := finder.Lookup(context.Background(), "  ", "Artist")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLookupSourceMatching(t *testing.T) {
	hits := []search.Hit{
		{URL: "https://genius.com/a-lyrics", Title: "A"},
		{URL: "https://random.blog/a", Title: "B"},
		{URL: "https://lyricstranslate.com/en/a", Title: "C"},
	}
	list := sources.New("lyricstranslate.com", "genius.com")

	t.Run("filter", func(t *testing.T) {
		finder := NewFinder(newStore(), []search.Provider{&fakeProvider{name: "fake", hits: hits}}, WithSources(list, true))
		result, _ := finder.Lookup(context.Background(), "A", "Artist")
		if len(result.Candidates) != 2 {
			t.Fatalf("expected non-matching result dropped, got %+v", result.Candidates)
		}
		if result.Candidates[0].Source != "genius.com" || result.Candidates[1].Source != "lyricstranslate.com" {
			t.Fatalf("unexpected sources %+v", result.Candidates)
		}
	})

	t.Run("annotate", func(t *testing.T) {
		finder := NewFinder(newStore(), []search.Provider{&fakeProvider{name: "fake", hits: hits}}, WithSources(list, false))
		result, _ := finder.Lookup(context.Background(), "A", "Artist")
		if len(result.Candidates) != 3 {
			t.Fatalf("expected all results kept, got %+v", result.Candidates)
		}
		if result.Candidates[1].Source != "" {
			t.Fatalf("expected empty source for unmatched result, got %q", result.Candidates[1].Source)
		}
	})

	t.Run("no list passes through", func(t *testing.T) {
		finder := NewFinder(newStore(), []search.Provider{&fakeProvider{name: "fake", hits: hits}}, WithSources(sources.New(), true))
		result, _ := finder.Lookup(context.Background(), "A", "Artist")
		if len(result.Candidates) != 3 {
			t.Fatalf("expected pass-through, got %+v", result.Candidates)
		}
	})

	t.Run("filter that drops everything falls through", func(t *testing.T) {
		first := &fakeProvider{name: "first", hits: []search.Hit{{URL: "https://random.blog/a"}}}
		second := &fakeProvider{name: "second", hits: []search.Hit{{URL: "https://genius.com/a"}}}
		finder := NewFinder(newStore(), []search.Provider{first, second}, WithSources(list, true))
		result, _ := finder.Lookup(context.Background(), "A", "Artist")
		if result.Provider != "second" || len(result.Candidates) != 1 {
			t.Fatalf("expected fallback to second provider, got %+v", result)
		}
	})
}

type steppedClock struct{ now time.Time }

func (c *steppedClock) Now() time.Time { return c.now }

func TestRefreshBypassesCacheAndAppliesBookmarkPolicy(t *testing.T) {
	hits := []search.Hit{{URL: "https://genius.com/a", Title: "A"}}

	for _, tc := range []struct {
		name     string
		preserve bool
		expire   bool
		want     bool
	}{
		{name: "reset", preserve: false, want: false},
		{name: "preserve", preserve: true, want: true},
		{name: "reset after expiry", preserve: false, expire: true, want: false},
		{name: "preserve after expiry", preserve: true, expire: true, want: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clock := &steppedClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
			store := searchcache.NewStore(searchcache.NewMemoryBackend(), nil, searchcache.WithClock(clock.Now))
			provider := &fakeProvider{name: "fake", hits: hits}
			finder := NewFinder(store, []search.Provider{provider}, WithPreservedBookmarks(tc.preserve))
			ctx := context.Background()

			if _, err := finder.Lookup(ctx, "A", "Artist"); err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if _, err := store.ToggleBookmark(ctx, "A", "Artist", "https://genius.com/a"); err != nil {
				t.Fatalf("ToggleBookmark: %v", err)
			}

			var (
				result Result
				err    error
			)
			if tc.expire {
				clock.now = clock.now.Add(31 * 24 * time.Hour)
				result, err = finder.Lookup(ctx, "A", "Artist")
			} else {
				result, err = finder.Refresh(ctx, "A", "Artist")
			}
			if err != nil {
				t.Fatalf("second lookup: %v", err)
			}
			if provider.calls != 2 || result.FromCache {
				t.Fatalf("expected the provider to be queried again, calls=%d fromCache=%v", provider.calls, result.FromCache)
			}
			if got := result.Bookmarks["https://genius.com/a"]; got != tc.want {
				t.Fatalf("bookmark in result = %v, want %v", got, tc.want)
			}
			stored, ok := store.Peek(ctx, "A", "Artist")
			if !ok {
				t.Fatal("expected refreshed entry to be stored")
			}
			if got := stored.Bookmarks["https://genius.com/a"]; got != tc.want {
				t.Fatalf("stored bookmark = %v, want %v", got, tc.want)
			}
			if !result.FetchedAt.Equal(clock.now) || !stored.FetchedAt.Equal(result.FetchedAt) {
				t.Fatalf("FetchedAt result=%v stored=%v, want store clock %v", result.FetchedAt, stored.FetchedAt, clock.now)
			}
		})
	}
}

type blockingProvider struct{ started chan struct{} }

func (b *blockingProvider) Name() string { return "blocking" }

func (b *blockingProvider) Search(ctx context.Context, _ string, _ int) ([]search.Hit, error) {
	close(b.started)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(20 * time.Millisecond):
		return []search.Hit{{URL: "https://genius.com/late"}}, nil
	}
}

func TestLookupSurvivesCallerCancellation(t *testing.T) {
	store := newStore()
	provider := &blockingProvider{started: make(chan struct{})}
	finder := NewFinder(store, []search.Provider{provider})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-provider.started
		cancel()
	}()
	result, err := finder.Lookup(ctx, "Late", "Artist")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("expected search to complete after cancellation, got %+v", result)
	}
	if _, ok := store.Peek(context.Background(), "Late", "Artist"); !ok {
		t.Fatalf("expected result to be cached")
	}
}
