package config

const (
	defaultConfigPath          = "~/.config/spotlyric/config.toml"
	defaultCacheFile           = "~/.local/share/spotlyric/search_cache.json"
	defaultCacheDB             = "~/.local/share/spotlyric/search_cache.db"
	defaultTokenFile           = "~/.config/spotlyric/spotify_token.json"
	defaultLogDir              = "~/.local/share/spotlyric/logs"
	defaultSourcesFile         = "~/.config/spotlyric/sources.txt"
	defaultServerBind          = "127.0.0.1:8000"
	defaultSpotifyAuthURL      = "https://accounts.spotify.com/authorize"
	defaultSpotifyTokenURL     = "https://accounts.spotify.com/api/token"
	defaultSpotifyAPIBaseURL   = "https://api.spotify.com/v1"
	defaultSerpAPIBaseURL      = "https://serpapi.com/search.json"
	defaultSerpAPIEngine       = "google"
	defaultSerpAPICountry      = "in"
	defaultSerpAPILanguage     = "en"
	defaultSerpAPIDelaySeconds = 2
	defaultDuckDuckGoBaseURL   = "https://html.duckduckgo.com/html/"
	defaultGoogleBaseURL       = "https://www.google.com/search"
	defaultSearchMaxResults    = 10
	defaultSearchTimeout       = 10
	defaultSearchUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultCacheExpirationDays = 30
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Cache backends.
const (
	CacheBackendJSON   = "json"
	CacheBackendSQLite = "sqlite"
	CacheBackendMemory = "memory"
)

// Bookmark policies applied when a fresh fetch replaces a cache entry.
const (
	BookmarkPolicyReset    = "reset"
	BookmarkPolicyPreserve = "preserve"
)

// Search provider names accepted in search.providers.
const (
	ProviderSerpAPI    = "serpapi"
	ProviderDuckDuckGo = "duckduckgo"
	ProviderGoogle     = "google"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheFile: defaultCacheFile,
			CacheDB:   defaultCacheDB,
			TokenFile: defaultTokenFile,
			LogDir:    defaultLogDir,
		},
		Server: Server{
			Bind: defaultServerBind,
		},
		Spotify: Spotify{
			AuthURL:    defaultSpotifyAuthURL,
			TokenURL:   defaultSpotifyTokenURL,
			APIBaseURL: defaultSpotifyAPIBaseURL,
		},
		Search: Search{
			Providers:      []string{ProviderSerpAPI, ProviderDuckDuckGo},
			MaxResults:     defaultSearchMaxResults,
			TimeoutSeconds: defaultSearchTimeout,
			UserAgent:      defaultSearchUserAgent,
			SerpAPI: SerpAPI{
				BaseURL:      defaultSerpAPIBaseURL,
				Engine:       defaultSerpAPIEngine,
				Country:      defaultSerpAPICountry,
				Language:     defaultSerpAPILanguage,
				DelaySeconds: defaultSerpAPIDelaySeconds,
			},
			DuckDuckGo: HTMLProvider{
				BaseURL: defaultDuckDuckGoBaseURL,
			},
			Google: HTMLProvider{
				BaseURL:      defaultGoogleBaseURL,
				DelaySeconds: 1,
			},
		},
		Cache: Cache{
			Backend:        CacheBackendJSON,
			ExpirationDays: defaultCacheExpirationDays,
			BookmarkPolicy: BookmarkPolicyReset,
		},
		Sources: Sources{
			File:   defaultSourcesFile,
			Filter: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
