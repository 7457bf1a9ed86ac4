package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spotlyric/internal/api"
	"spotlyric/internal/lyrics"
	"spotlyric/internal/searchcache"
)

func newBookmarkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark <title> <artist> <url>",
		Short: "Toggle the bookmark on a cached lyrics source",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *searchcache.Store) error {
				resp, err := api.NewCacheService(store).ToggleBookmark(cmd.Context(), api.BookmarkRequest{
					Title:  args[0],
					Artist: args[1],
					URL:    args[2],
				})
				if err != nil {
					return err
				}
				return ctx.emit(cmd, resp, func(out io.Writer) {
					state := "Removed bookmark"
					if resp.Bookmarked {
						state = "Bookmarked"
					}
					fmt.Fprintf(out, "%s %s for %s\n", state, resp.URL, lyrics.SongLabel(args[0], args[1]))
				})
			})
		},
	}
}
