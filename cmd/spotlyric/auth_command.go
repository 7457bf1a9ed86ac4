package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"spotlyric/internal/spotify"
)

type authStatus struct {
	TokenFile   string `json:"token_file"`
	Configured  bool   `json:"configured"`
	LoggedIn    bool   `json:"logged_in"`
	Refreshable bool   `json:"refreshable"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in to Spotify from the terminal",
	}

	authCmd.AddCommand(newAuthURLCommand(ctx))
	authCmd.AddCommand(newAuthExchangeCommand(ctx))
	authCmd.AddCommand(newAuthStatusCommand(ctx))

	return authCmd
}

func newAuthURLCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the Spotify authorization URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := ctx.authenticator()
			if err != nil {
				return err
			}
			url := auth.AuthURL(spotify.NewState())
			return ctx.emit(cmd, map[string]string{"url": url}, func(out io.Writer) {
				fmt.Fprintln(out, "Open this URL, approve access, then run `spotlyric auth exchange <code>` with the code from the redirect:")
				fmt.Fprintln(out, url)
			})
		},
	}
}

func newAuthExchangeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "exchange <code>",
		Short: "Exchange an authorization code and store the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := ctx.authenticator()
			if err != nil {
				return err
			}
			token, err := auth.Exchange(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			store := spotify.NewFileTokenStore(ctx.config.Paths.TokenFile)
			if err := store.Save(token); err != nil {
				return err
			}
			status := authStatus{
				TokenFile:   store.Path(),
				Configured:  true,
				LoggedIn:    true,
				Refreshable: token.RefreshToken != "",
				ExpiresAt:   formatExpiry(token.Expiry),
			}
			return ctx.emit(cmd, status, func(out io.Writer) {
				fmt.Fprintf(out, "Logged in; token saved to %s\n", store.Path())
			})
		},
	}
}

func newAuthStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a Spotify token is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := spotify.NewFileTokenStore(cfg.Paths.TokenFile)
			token, err := store.Load()
			if err != nil {
				return err
			}
			status := authStatus{
				TokenFile:  store.Path(),
				Configured: cfg.ValidateSpotify() == nil,
				LoggedIn:   token != nil,
			}
			if token != nil {
				status.Refreshable = token.RefreshToken != ""
				status.ExpiresAt = formatExpiry(token.Expiry)
			}
			return ctx.emit(cmd, status, func(out io.Writer) {
				fmt.Fprintf(out, "Client configured: %s\n", yesNo(status.Configured))
				fmt.Fprintf(out, "Logged in:         %s\n", yesNo(status.LoggedIn))
				if !status.LoggedIn {
					return
				}
				fmt.Fprintf(out, "Refreshable:       %s\n", yesNo(status.Refreshable))
				if status.ExpiresAt != "" {
					fmt.Fprintf(out, "Access expires:    %s\n", status.ExpiresAt)
				}
			})
		},
	}
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
