package lyrics

import (
	"fmt"
	"log/slog"
	"time"

	"spotlyric/internal/config"
	"spotlyric/internal/search"
	"spotlyric/internal/search/duckduckgo"
	"spotlyric/internal/search/google"
	"spotlyric/internal/search/serpapi"
	"spotlyric/internal/searchcache"
	"spotlyric/internal/sources"
)

// BuildProviders constructs the configured search providers in priority
// order, each wrapped with its pacing delay.
func BuildProviders(cfg *config.Config) ([]search.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("lyrics: config is required")
	}
	client := search.NewHTTPClient(cfg.SearchTimeout())
	providers := make([]search.Provider, 0, len(cfg.Search.Providers))
	for _, name := range cfg.Search.Providers {
		var (
			provider search.Provider
			delay    time.Duration
			err      error
		)
		switch name {
		case config.ProviderSerpAPI:
			settings := cfg.Search.SerpAPI
			provider, err = serpapi.New(serpapi.Config{
				APIKey:     settings.APIKey,
				BaseURL:    settings.BaseURL,
				Engine:     settings.Engine,
				Country:    settings.Country,
				Language:   settings.Language,
				HTTPClient: client,
			})
			delay = time.Duration(settings.DelaySeconds) * time.Second
		case config.ProviderDuckDuckGo:
			settings := cfg.Search.DuckDuckGo
			provider, err = duckduckgo.New(duckduckgo.Config{
				BaseURL:    settings.BaseURL,
				UserAgent:  cfg.Search.UserAgent,
				HTTPClient: client,
			})
			delay = time.Duration(settings.DelaySeconds) * time.Second
		case config.ProviderGoogle:
			settings := cfg.Search.Google
			provider, err = google.New(google.Config{
				BaseURL:    settings.BaseURL,
				UserAgent:  cfg.Search.UserAgent,
				Language:   cfg.Search.SerpAPI.Language,
				HTTPClient: client,
			})
			delay = time.Duration(settings.DelaySeconds) * time.Second
		default:
			return nil, fmt.Errorf("lyrics: unknown search provider %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("lyrics: configure %s: %w", name, err)
		}
		providers = append(providers, search.Throttle(provider, delay))
	}
	return providers, nil
}

// NewFinderFromConfig wires a Finder from configuration: providers, the
// source list, and the bookmark policy.
func NewFinderFromConfig(cfg *config.Config, store *searchcache.Store, logger *slog.Logger) (*Finder, error) {
	providers, err := BuildProviders(cfg)
	if err != nil {
		return nil, err
	}
	list, err := sources.Load(cfg.Sources.File)
	if err != nil {
		return nil, err
	}
	if list.Len() == 0 && logger != nil {
		logger.Info("no preferred sources configured; results are not filtered",
			slog.String("sources_file", cfg.Sources.File))
	}
	return NewFinder(store, providers,
		WithSources(list, cfg.Sources.Filter),
		WithPreservedBookmarks(cfg.PreserveBookmarks()),
		WithMaxResults(cfg.Search.MaxResults),
		WithTimeout(cfg.SearchTimeout()+time.Duration(maxDelaySeconds(cfg))*time.Second),
		WithLogger(logger),
	), nil
}

func maxDelaySeconds(cfg *config.Config) int {
	return max(cfg.Search.SerpAPI.DelaySeconds, cfg.Search.DuckDuckGo.DelaySeconds, cfg.Search.Google.DelaySeconds)
}
