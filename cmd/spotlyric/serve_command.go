package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spotlyric/internal/api"
	"spotlyric/internal/logging"
	"spotlyric/internal/lyrics"
	"spotlyric/internal/nowplaying"
	"spotlyric/internal/searchcache"
	"spotlyric/internal/server"
	"spotlyric/internal/spotify"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web page and JSON endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := searchcache.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("open search cache: %w", err)
			}
			defer store.Close()

			finder, err := lyrics.NewFinderFromConfig(cfg, store, logger)
			if err != nil {
				return err
			}

			opts := server.Options{
				Bind:       cfg.Server.Bind,
				APIToken:   cfg.Server.APIToken,
				Cache:      api.NewCacheService(store),
				TokenStore: spotify.NewFileTokenStore(cfg.Paths.TokenFile),
				Logger:     logger,
			}
			if bind != "" {
				opts.Bind = bind
			}

			player := spotify.NewClient(spotify.ClientConfig{BaseURL: cfg.Spotify.APIBaseURL})
			var refresher spotify.Refresher
			if err := cfg.ValidateSpotify(); err != nil {
				logging.WarnWithContext(logger, "spotify login disabled", "spotify_not_configured", logging.Error(err))
			} else {
				auth, err := ctx.authenticator()
				if err != nil {
					return err
				}
				opts.Auth = auth
				refresher = auth
			}
			opts.NowPlaying = nowplaying.NewService(player, refresher, finder, logger)

			srv, err := server.New(opts)
			if err != nil {
				return err
			}
			if err := srv.Start(cmd.Context()); err != nil {
				return err
			}
			logger.Info("spotlyric started",
				logging.String("config", ctx.configPath),
				logging.String("providers", strings.Join(cfg.Search.Providers, ",")),
				logging.String("cache_backend", cfg.Cache.Backend),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", srv.Addr())

			<-cmd.Context().Done()
			srv.Stop()
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
