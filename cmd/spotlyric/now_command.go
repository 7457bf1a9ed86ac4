package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spotlyric/internal/api"
	"spotlyric/internal/lyrics"
	"spotlyric/internal/services"
	"spotlyric/internal/spotify"
)

func newNowCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Show the song playing on Spotify and its lyrics sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, err := ctx.authenticator()
			if err != nil {
				return err
			}
			tokens := spotify.NewTokenSource(auth, spotify.NewFileTokenStore(ctx.config.Paths.TokenFile))
			client := spotify.NewClient(spotify.ClientConfig{BaseURL: ctx.config.Spotify.APIBaseURL})

			token, err := tokens.Token(cmd.Context())
			if err != nil {
				return err
			}
			track, err := client.CurrentlyPlaying(cmd.Context(), token.AccessToken)
			if errors.Is(err, services.ErrAuthExpired) {
				if token, err = tokens.ForceRefresh(cmd.Context()); err != nil {
					return err
				}
				track, err = client.CurrentlyPlaying(cmd.Context(), token.AccessToken)
			}
			if errors.Is(err, spotify.ErrNothingPlaying) {
				return ctx.emit(cmd, map[string]bool{"playing": false}, func(out io.Writer) {
					fmt.Fprintln(out, "Nothing is currently playing")
				})
			}
			if err != nil {
				return err
			}

			return ctx.withFinder(cmd, func(finder *lyrics.Finder) error {
				lookup := finder.Lookup
				if refresh {
					lookup = finder.Refresh
				}
				result, err := lookup(cmd.Context(), track.Title, track.Artist)
				if err != nil {
					return err
				}
				response := api.FromResult(track.Title, track.Artist, result)
				return ctx.emit(cmd, response, func(out io.Writer) {
					if !track.IsPlaying {
						fmt.Fprintln(out, "Playback is paused")
					}
					printLookup(out, response)
				})
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached results and search again")
	return cmd
}
