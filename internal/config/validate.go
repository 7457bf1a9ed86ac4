package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// ValidateSpotify ensures OAuth client credentials are present. Only commands
// that talk to Spotify call it so cache maintenance works without credentials.
func (c *Config) ValidateSpotify() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return fmt.Errorf("spotify.client_id and spotify.client_secret are required. Set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET env vars or edit %s (create with 'spotlyric config init')", c.configPathHint())
	}
	if _, err := url.ParseRequestURI(c.Spotify.RedirectURL); err != nil {
		return fmt.Errorf("spotify.redirect_url %q is not a valid URL: %w", c.Spotify.RedirectURL, err)
	}
	return nil
}

func (c *Config) validateSearch() error {
	if len(c.Search.Providers) == 0 {
		return errors.New("search.providers must list at least one provider")
	}
	known := []string{ProviderSerpAPI, ProviderDuckDuckGo, ProviderGoogle}
	for _, name := range c.Search.Providers {
		if !slices.Contains(known, name) {
			return fmt.Errorf("search.providers: unsupported provider %q (valid: serpapi, duckduckgo, google)", name)
		}
	}
	if slices.Contains(c.Search.Providers, ProviderSerpAPI) && c.Search.SerpAPI.APIKey == "" {
		return fmt.Errorf("search.serpapi.api_key is required when serpapi is listed in search.providers. Set SERPAPI_KEY env var or edit %s (create with 'spotlyric config init')", c.configPathHint())
	}
	if c.Search.MaxResults < 1 || c.Search.MaxResults > 100 {
		return errors.New("search.max_results must be between 1 and 100")
	}
	if c.Search.TimeoutSeconds < 0 {
		return errors.New("search.timeout_seconds must be positive")
	}
	for name, delay := range map[string]int{
		"search.serpapi.delay_seconds":    c.Search.SerpAPI.DelaySeconds,
		"search.duckduckgo.delay_seconds": c.Search.DuckDuckGo.DelaySeconds,
		"search.google.delay_seconds":     c.Search.Google.DelaySeconds,
	} {
		if delay < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case CacheBackendJSON, CacheBackendSQLite, CacheBackendMemory:
	default:
		return fmt.Errorf("cache.backend: unsupported value %q (valid: json, sqlite, memory)", c.Cache.Backend)
	}
	if c.Cache.ExpirationDays < 1 {
		return errors.New("cache.expiration_days must be at least 1")
	}
	switch c.Cache.BookmarkPolicy {
	case BookmarkPolicyReset, BookmarkPolicyPreserve:
	default:
		return fmt.Errorf("cache.bookmark_policy: unsupported value %q (valid: reset, preserve)", c.Cache.BookmarkPolicy)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (valid: console, json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (valid: debug, info, warn, error)", c.Logging.Level)
	}
	return nil
}

func (c *Config) configPathHint() string {
	path, err := DefaultConfigPath()
	if err != nil {
		return defaultConfigPath
	}
	return path
}
