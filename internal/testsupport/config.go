package testsupport

import (
	"path/filepath"
	"testing"

	"spotlyric/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test. The
// default provider list is DuckDuckGo only so no API key is needed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheFile = filepath.Join(base, "data", "search_cache.json")
	cfgVal.Paths.CacheDB = filepath.Join(base, "data", "search_cache.db")
	cfgVal.Paths.TokenFile = filepath.Join(base, "config", "spotify_token.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Sources.File = filepath.Join(base, "config", "sources.txt")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Search.Providers = []string{config.ProviderDuckDuckGo}
	cfgVal.Search.DuckDuckGo.DelaySeconds = 0
	cfgVal.Search.Google.DelaySeconds = 0
	cfgVal.Search.SerpAPI.DelaySeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProviders sets the search provider order.
func WithProviders(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.Providers = names
	}
}

// WithSearchServer points every search provider at baseURL, typically an
// httptest server.
func WithSearchServer(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.SerpAPI.BaseURL = baseURL + "/serpapi"
		b.cfg.Search.DuckDuckGo.BaseURL = baseURL + "/duckduckgo"
		b.cfg.Search.Google.BaseURL = baseURL + "/google"
	}
}

// WithSerpAPIKey sets the SerpAPI key on the test config.
func WithSerpAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Search.SerpAPI.APIKey = key
	}
}

// WithSpotify configures client credentials and points the accounts and Web
// API endpoints at baseURL.
func WithSpotify(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Spotify.ClientID = "test-client"
		b.cfg.Spotify.ClientSecret = "test-secret"
		b.cfg.Spotify.RedirectURL = "http://127.0.0.1:8000/callback"
		if baseURL != "" {
			b.cfg.Spotify.AuthURL = baseURL + "/authorize"
			b.cfg.Spotify.TokenURL = baseURL + "/api/token"
			b.cfg.Spotify.APIBaseURL = baseURL + "/v1"
		}
	}
}

// WithSources writes the preferred source list for the test config.
func WithSources(lines ...string) ConfigOption {
	return func(b *configBuilder) {
		WriteLines(b.t, b.cfg.Sources.File, lines...)
	}
}

// WithCacheBackend selects the cache backend.
func WithCacheBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Backend = backend
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
