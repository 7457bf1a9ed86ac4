package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envOverrides lists secrets and deployment settings read from the process
// environment. Secrets only fill values the TOML file leaves empty; the
// deployment settings (bind address, provider order, cache backend) replace
// the file's values when set.
type envOverrides struct {
	SpotifyClientID     string   `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string   `env:"SPOTIFY_CLIENT_SECRET"`
	SpotifyRedirectURI  string   `env:"SPOTIFY_REDIRECT_URI"`
	SerpAPIKey          string   `env:"SERPAPI_KEY"`
	APIToken            string   `env:"SPOTLYRIC_API_TOKEN"`
	Bind                string   `env:"SPOTLYRIC_BIND"`
	Providers           []string `env:"SPOTLYRIC_SEARCH_PROVIDERS" envSeparator:","`
	CacheBackend        string   `env:"SPOTLYRIC_CACHE_BACKEND"`
}

func (c *Config) applyEnv() error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	setIfEmpty(&c.Spotify.ClientID, overrides.SpotifyClientID)
	setIfEmpty(&c.Spotify.ClientSecret, overrides.SpotifyClientSecret)
	setIfEmpty(&c.Spotify.RedirectURL, overrides.SpotifyRedirectURI)
	setIfEmpty(&c.Search.SerpAPI.APIKey, overrides.SerpAPIKey)
	setIfEmpty(&c.Server.APIToken, overrides.APIToken)
	if v := strings.TrimSpace(overrides.Bind); v != "" {
		c.Server.Bind = v
	}
	if len(overrides.Providers) > 0 {
		c.Search.Providers = overrides.Providers
	}
	if v := strings.TrimSpace(overrides.CacheBackend); v != "" {
		c.Cache.Backend = v
	}
	return nil
}

func setIfEmpty(dst *string, value string) {
	if strings.TrimSpace(*dst) != "" {
		return
	}
	*dst = strings.TrimSpace(value)
}

// LoadDotEnv reads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
