package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file locations for persisted state.
type Paths struct {
	CacheFile string `toml:"cache_file"`
	CacheDB   string `toml:"cache_db"`
	TokenFile string `toml:"token_file"`
	LogDir    string `toml:"log_dir"`
}

// Server contains configuration for the HTTP front end.
type Server struct {
	Bind      string `toml:"bind"`
	APIToken  string `toml:"api_token"`
	PublicURL string `toml:"public_url"`
}

// Spotify contains OAuth client settings for the Spotify Web API.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
	AuthURL      string `toml:"auth_url"`
	TokenURL     string `toml:"token_url"`
	APIBaseURL   string `toml:"api_base_url"`
}

// SerpAPI contains configuration for the SerpAPI Google engine.
type SerpAPI struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	Engine       string `toml:"engine"`
	Country      string `toml:"country"`
	Language     string `toml:"language"`
	DelaySeconds int    `toml:"delay_seconds"`
}

// HTMLProvider contains configuration for providers that scrape result pages.
type HTMLProvider struct {
	BaseURL      string `toml:"base_url"`
	DelaySeconds int    `toml:"delay_seconds"`
}

// Search contains provider ordering and request limits.
type Search struct {
	Providers      []string     `toml:"providers"`
	MaxResults     int          `toml:"max_results"`
	TimeoutSeconds int          `toml:"timeout_seconds"`
	UserAgent      string       `toml:"user_agent"`
	SerpAPI        SerpAPI      `toml:"serpapi"`
	DuckDuckGo     HTMLProvider `toml:"duckduckgo"`
	Google         HTMLProvider `toml:"google"`
}

// Cache contains configuration for the search result cache.
type Cache struct {
	Backend        string `toml:"backend"`         // json, sqlite, or memory
	ExpirationDays int    `toml:"expiration_days"` // Default: 30
	BookmarkPolicy string `toml:"bookmark_policy"` // reset or preserve
}

// Sources contains configuration for the preferred lyrics site list.
type Sources struct {
	File   string `toml:"file"`
	Filter bool   `toml:"filter"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for spotlyric.
//
// Configuration sections by subsystem:
//   - Paths: cache, token, and log locations
//   - Server: HTTP bind address and admin token
//   - Spotify: OAuth client credentials
//   - Search: provider order, limits, and per-provider settings
//   - Cache: backend, expiration, and bookmark policy
//   - Sources: preferred lyrics sites
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Server  Server  `toml:"server"`
	Spotify Spotify `toml:"spotify"`
	Search  Search  `toml:"search"`
	Cache   Cache   `toml:"cache"`
	Sources Sources `toml:"sources"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and environment overrides applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("spotlyric.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the parent directories for persisted state.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.TokenFile)}
	switch c.Cache.Backend {
	case CacheBackendJSON:
		dirs = append(dirs, filepath.Dir(c.Paths.CacheFile))
	case CacheBackendSQLite:
		dirs = append(dirs, filepath.Dir(c.Paths.CacheDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CacheExpiration returns the age at which cached search results stop being served.
func (c *Config) CacheExpiration() time.Duration {
	return time.Duration(c.Cache.ExpirationDays) * 24 * time.Hour
}

// SearchTimeout returns the per-request deadline for search providers.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

// PreserveBookmarks reports whether a refreshed entry keeps the previous bookmarks.
func (c *Config) PreserveBookmarks() bool {
	return c.Cache.BookmarkPolicy == BookmarkPolicyPreserve
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
