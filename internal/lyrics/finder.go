package lyrics

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"spotlyric/internal/logging"
	"spotlyric/internal/search"
	"spotlyric/internal/searchcache"
	"spotlyric/internal/services"
	"spotlyric/internal/sources"
)

const (
	defaultMaxResults = 10
	defaultTimeout    = 30 * time.Second
)

// Result is the outcome of a lookup. Candidates and Bookmarks are never nil.
type Result struct {
	Candidates []searchcache.Candidate
	Bookmarks  map[string]bool
	FromCache  bool
	FetchedAt  time.Time
	// Provider names the search provider that produced a fresh result.
	Provider string
}

// Finder coordinates the cache and the search providers.
type Finder struct {
	store      *searchcache.Store
	providers  []search.Provider
	sources    sources.List
	filter     bool
	preserve   bool
	maxResults int
	timeout    time.Duration
	logger     *slog.Logger
}

// Option customizes a Finder.
type Option func(*Finder)

// WithSources configures the preferred source list. When filter is true,
// results that match no source are dropped.
func WithSources(list sources.List, filter bool) Option {
	return func(f *Finder) {
		f.sources = list
		f.filter = filter
	}
}

// WithPreservedBookmarks carries bookmarks over when a fresh fetch replaces
// an existing entry.
func WithPreservedBookmarks(preserve bool) Option {
	return func(f *Finder) { f.preserve = preserve }
}

// WithMaxResults bounds the number of results requested from a provider.
func WithMaxResults(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.maxResults = n
		}
	}
}

// WithTimeout bounds each provider call, including any pacing delay.
func WithTimeout(d time.Duration) Option {
	return func(f *Finder) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) { f.logger = logger }
}

// NewFinder constructs a Finder that queries providers in the given order.
func NewFinder(store *searchcache.Store, providers []search.Provider, opts ...Option) *Finder {
	f := &Finder{
		store:      store,
		providers:  append([]search.Provider(nil), providers...),
		maxResults: defaultMaxResults,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.NewComponentLogger(f.logger, "lyrics")
	return f
}

// Store exposes the cache used by the finder.
func (f *Finder) Store() *searchcache.Store { return f.store }

// Providers returns the provider names in priority order.
func (f *Finder) Providers() []string {
	names := make([]string, 0, len(f.providers))
	for _, p := range f.providers {
		names = append(names, p.Name())
	}
	return names
}

// Lookup returns candidate pages for the song, serving from the cache when
// a fresh entry exists. Provider and cache failures are logged and folded
// into an empty result; only an empty title is reported as an error.
func (f *Finder) Lookup(ctx context.Context, title, artist string) (Result, error) {
	return f.lookup(ctx, title, artist, false)
}

// Refresh behaves like Lookup but always queries the providers, replacing
// any cached entry on success.
func (f *Finder) Refresh(ctx context.Context, title, artist string) (Result, error) {
	return f.lookup(ctx, title, artist, true)
}

func (f *Finder) lookup(ctx context.Context, title, artist string, refresh bool) (Result, error) {
	title = strings.TrimSpace(title)
	artist = strings.TrimSpace(artist)
	if title == "" {
		return Result{}, services.Wrap(services.ErrValidation, "lyrics", "lookup", "song title is required", nil)
	}
	ctx = services.WithSong(ctx, SongLabel(title, artist))
	logger := logging.WithContext(ctx, f.logger)

	// Get evicts an expired entry, so bookmarks carried across a refresh are
	// read before it runs.
	bookmarks := map[string]bool{}
	if f.preserve {
		if previous, ok := f.store.Peek(ctx, title, artist); ok && previous.Bookmarks != nil {
			bookmarks = previous.Bookmarks
		}
	}

	if !refresh {
		if cached, ok := f.store.Get(ctx, title, artist); ok {
			logger.Debug("serving cached lyrics sources",
				logging.Int("candidates", len(cached.Candidates)),
				logging.Time("fetched_at", cached.FetchedAt),
			)
			return Result{
				Candidates: cached.Candidates,
				Bookmarks:  cached.Bookmarks,
				FromCache:  true,
				FetchedAt:  cached.FetchedAt,
			}, nil
		}
	}

	// Quota spent on a search is kept even if the caller goes away, so the
	// search and the write-back both ignore caller cancellation.
	ctx = context.WithoutCancel(ctx)
	candidates, provider := f.search(ctx, logger, BuildQuery(title, artist))
	if len(candidates) == 0 {
		logger.Info("no lyrics sources found", logging.Int("providers", len(f.providers)))
		return Result{Candidates: []searchcache.Candidate{}, Bookmarks: map[string]bool{}}, nil
	}

	fetchedAt, err := f.store.Put(ctx, title, artist, candidates, bookmarks)
	if err != nil {
		fetchedAt = time.Now()
		logging.WarnWithContext(logger, "failed to cache lyrics sources", "cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the cache file"),
			logging.String(logging.FieldImpact, "the next lookup will search again"),
		)
	}
	logger.Info("found lyrics sources",
		logging.String(logging.FieldProvider, provider),
		logging.Int("candidates", len(candidates)),
	)
	return Result{
		Candidates: candidates,
		Bookmarks:  bookmarks,
		FetchedAt:  fetchedAt,
		Provider:   provider,
	}, nil
}

// search walks the providers in order and returns the first non-empty,
// normalized result set.
func (f *Finder) search(ctx context.Context, logger *slog.Logger, query string) ([]searchcache.Candidate, string) {
	for _, provider := range f.providers {
		name := provider.Name()
		callCtx, cancel := context.WithTimeout(ctx, f.timeout)
		started := time.Now()
		hits, err := provider.Search(callCtx, query, f.maxResults)
		cancel()
		if err != nil {
			logging.WarnWithContext(logger, "search provider failed", "provider_failed",
				logging.String(logging.FieldProvider, name),
				logging.Error(err),
				logging.Bool("retriable", search.IsRetriable(err)),
				logging.String(logging.FieldErrorHint, "check the provider credentials and network access"),
				logging.String(logging.FieldImpact, "falling back to the next provider"),
			)
			continue
		}
		candidates := f.normalize(hits)
		logger.Debug("search provider returned",
			logging.String(logging.FieldProvider, name),
			logging.Int("hits", len(hits)),
			logging.Int("usable", len(candidates)),
			logging.Duration("elapsed", time.Since(started)),
		)
		if len(candidates) > 0 {
			return candidates, name
		}
	}
	return nil, ""
}

// normalize converts raw hits into candidates, attaching the matching source
// and a display title while preserving provider order. Repeated URLs keep
// only their first position since bookmarks are keyed by URL.
func (f *Finder) normalize(hits []search.Hit) []searchcache.Candidate {
	candidates := make([]searchcache.Candidate, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	for _, hit := range hits {
		link := strings.TrimSpace(hit.URL)
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		source, matched := f.sources.Match(link)
		if f.filter && f.sources.Len() > 0 && !matched {
			continue
		}
		seen[link] = struct{}{}
		title := strings.TrimSpace(hit.Title)
		if title == "" {
			title = TitleFromURL(link)
		}
		candidates = append(candidates, searchcache.Candidate{URL: link, Title: title, Source: source})
	}
	return candidates
}
