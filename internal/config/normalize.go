package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeSpotify()
	c.normalizeSearch()
	c.normalizeCache()
	if err := c.normalizeSources(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheFile) == "" {
		c.Paths.CacheFile = defaultCacheFile
	}
	if c.Paths.CacheFile, err = expandPath(c.Paths.CacheFile); err != nil {
		return fmt.Errorf("paths.cache_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDB) == "" {
		c.Paths.CacheDB = defaultCacheDB
	}
	if c.Paths.CacheDB, err = expandPath(c.Paths.CacheDB); err != nil {
		return fmt.Errorf("paths.cache_db: %w", err)
	}
	if strings.TrimSpace(c.Paths.TokenFile) == "" {
		c.Paths.TokenFile = defaultTokenFile
	}
	if c.Paths.TokenFile, err = expandPath(c.Paths.TokenFile); err != nil {
		return fmt.Errorf("paths.token_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	c.Server.PublicURL = strings.TrimRight(strings.TrimSpace(c.Server.PublicURL), "/")
	if c.Server.PublicURL == "" {
		c.Server.PublicURL = "http://" + c.Server.Bind
	}
}

func (c *Config) normalizeSpotify() {
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	c.Spotify.RedirectURL = strings.TrimSpace(c.Spotify.RedirectURL)
	if c.Spotify.RedirectURL == "" {
		c.Spotify.RedirectURL = c.Server.PublicURL + "/callback"
	}
	c.Spotify.AuthURL = defaultString(c.Spotify.AuthURL, defaultSpotifyAuthURL)
	c.Spotify.TokenURL = defaultString(c.Spotify.TokenURL, defaultSpotifyTokenURL)
	c.Spotify.APIBaseURL = strings.TrimRight(defaultString(c.Spotify.APIBaseURL, defaultSpotifyAPIBaseURL), "/")
}

func (c *Config) normalizeSearch() {
	providers := make([]string, 0, len(c.Search.Providers))
	seen := make(map[string]struct{}, len(c.Search.Providers))
	for _, name := range c.Search.Providers {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		providers = append(providers, name)
	}
	c.Search.Providers = providers
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = defaultSearchMaxResults
	}
	if c.Search.TimeoutSeconds == 0 {
		c.Search.TimeoutSeconds = defaultSearchTimeout
	}
	c.Search.UserAgent = defaultString(c.Search.UserAgent, defaultSearchUserAgent)

	c.Search.SerpAPI.APIKey = strings.TrimSpace(c.Search.SerpAPI.APIKey)
	c.Search.SerpAPI.BaseURL = defaultString(c.Search.SerpAPI.BaseURL, defaultSerpAPIBaseURL)
	c.Search.SerpAPI.Engine = defaultString(c.Search.SerpAPI.Engine, defaultSerpAPIEngine)
	c.Search.SerpAPI.Country = strings.ToLower(defaultString(c.Search.SerpAPI.Country, defaultSerpAPICountry))
	c.Search.SerpAPI.Language = strings.ToLower(defaultString(c.Search.SerpAPI.Language, defaultSerpAPILanguage))
	c.Search.DuckDuckGo.BaseURL = defaultString(c.Search.DuckDuckGo.BaseURL, defaultDuckDuckGoBaseURL)
	c.Search.Google.BaseURL = defaultString(c.Search.Google.BaseURL, defaultGoogleBaseURL)
}

func (c *Config) normalizeCache() {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendJSON
	}
	if c.Cache.ExpirationDays == 0 {
		c.Cache.ExpirationDays = defaultCacheExpirationDays
	}
	c.Cache.BookmarkPolicy = strings.ToLower(strings.TrimSpace(c.Cache.BookmarkPolicy))
	if c.Cache.BookmarkPolicy == "" {
		c.Cache.BookmarkPolicy = BookmarkPolicyReset
	}
}

func (c *Config) normalizeSources() error {
	if strings.TrimSpace(c.Sources.File) == "" {
		return nil
	}
	var err error
	if c.Sources.File, err = expandPath(strings.TrimSpace(c.Sources.File)); err != nil {
		return fmt.Errorf("sources.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}

func defaultString(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
