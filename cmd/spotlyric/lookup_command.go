package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"spotlyric/internal/api"
	"spotlyric/internal/lyrics"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "lookup <title> <artist>",
		Short: "Find lyrics and translation pages for a song",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, artist := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			return ctx.withFinder(cmd, func(finder *lyrics.Finder) error {
				lookup := finder.Lookup
				if refresh {
					lookup = finder.Refresh
				}
				result, err := lookup(cmd.Context(), title, artist)
				if err != nil {
					return err
				}
				response := api.FromResult(title, artist, result)
				return ctx.emit(cmd, response, func(out io.Writer) { printLookup(out, response) })
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached results and search again")
	return cmd
}

func printLookup(out io.Writer, response api.LookupResponse) {
	label := lyrics.SongLabel(response.Song, response.Artist)
	if len(response.Sources) == 0 {
		fmt.Fprintf(out, "No lyrics sources found for %s\n", label)
		return
	}
	origin := "searched"
	if response.Provider != "" {
		origin = "searched via " + response.Provider
	}
	if response.FromCache {
		origin = "cached"
	}
	fmt.Fprintf(out, "%s (%s)\n", label, origin)
	fmt.Fprint(out, renderSources(out, response.Sources))
}
