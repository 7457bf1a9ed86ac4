package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"spotlyric/internal/config"
	"spotlyric/internal/logging"
	"spotlyric/internal/lyrics"
	"spotlyric/internal/searchcache"
	"spotlyric/internal/spotify"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadDotEnv(""); err != nil {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// commandLogger logs warnings and errors to w; debug configuration keeps
// everything.
func (c *commandContext) commandLogger(w io.Writer) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	level := "warn"
	if strings.EqualFold(cfg.Logging.Level, "debug") {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format, Writer: w})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// withStore opens the configured search cache for the duration of fn.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(*searchcache.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := searchcache.Open(commandContextOrBackground(cmd), cfg, c.commandLogger(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("open search cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// withFinder opens the cache and wires a Finder from configuration.
func (c *commandContext) withFinder(cmd *cobra.Command, fn func(*lyrics.Finder) error) error {
	return c.withStore(cmd, func(store *searchcache.Store) error {
		finder, err := lyrics.NewFinderFromConfig(c.config, store, c.commandLogger(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		return fn(finder)
	})
}

func (c *commandContext) authenticator() (*spotify.Authenticator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateSpotify(); err != nil {
		return nil, err
	}
	return spotify.NewAuthenticator(spotify.AuthConfig{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RedirectURL:  cfg.Spotify.RedirectURL,
		AuthURL:      cfg.Spotify.AuthURL,
		TokenURL:     cfg.Spotify.TokenURL,
	})
}

func commandContextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
