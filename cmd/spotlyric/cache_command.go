package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"spotlyric/internal/api"
	"spotlyric/internal/searchcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage cached lyrics lookups",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCacheSweepCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *searchcache.Store) error {
				listings := store.List(cmd.Context())
				return ctx.emit(cmd, api.NewCacheService(store).List(cmd.Context()), func(out io.Writer) {
					printCacheListings(out, listings)
				})
			})
		},
	}
}

func printCacheListings(out io.Writer, listings []searchcache.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(out, "Cache is empty")
		return
	}
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		status := "fresh"
		if l.Expired {
			status = "expired"
		}
		rows = append(rows, []string{
			l.Key,
			strconv.Itoa(l.Candidates),
			strconv.Itoa(l.Bookmarked),
			humanize.Time(l.FetchedAt),
			status,
		})
	}
	columns := []column{{title: "Key"}, {title: "Sources", numeric: true}, {title: "Bookmarks", numeric: true}, {title: "Fetched"}, {title: "Status"}}
	fmt.Fprintln(out, renderTable(out, columns, rows))
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Show one cached song and its sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *searchcache.Store) error {
				detail, err := api.NewCacheService(store).Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return ctx.emit(cmd, detail, func(out io.Writer) { printCacheDetail(out, detail) })
			})
		},
	}
}

func printCacheDetail(out io.Writer, detail *api.CacheEntryDetail) {
	fmt.Fprintf(out, "Key:       %s\n", detail.Key)
	fmt.Fprintf(out, "Fetched:   %s\n", detail.FetchedAt)
	fmt.Fprintf(out, "Expired:   %s\n", yesNo(detail.Expired))
	fmt.Fprintf(out, "Bookmarks: %d\n", detail.Bookmarked)
	if len(detail.Items) == 0 {
		fmt.Fprintln(out, "Sources:   none")
	} else {
		fmt.Fprint(out, renderSources(out, detail.Items))
	}
	for _, url := range detail.Orphaned {
		fmt.Fprintf(out, "Bookmarked but no longer listed: %s\n", url)
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <key> [key...]",
		Short: "Remove cached songs by key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *searchcache.Store) error {
				resp, err := api.NewCacheService(store).Remove(cmd.Context(), args...)
				if err != nil {
					return err
				}
				return ctx.emit(cmd, resp, func(out io.Writer) {
					for _, key := range resp.Keys {
						switch key.Outcome {
						case api.RemoveOutcomeRemoved:
							fmt.Fprintf(out, "Removed %s\n", key.Key)
						default:
							fmt.Fprintf(out, "No cache entry for %s\n", key.Key)
						}
					}
				})
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached song",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *searchcache.Store) error {
				removed, err := api.NewCacheService(store).Clear(cmd.Context())
				if err != nil {
					return err
				}
				return ctx.emit(cmd, api.CacheSweepResponse{Removed: removed}, func(out io.Writer) {
					fmt.Fprintf(out, "Cleared %s\n", pluralEntries(removed))
				})
			})
		},
	}
}

func newCacheSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired cached songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store *searchcache.Store) error {
				resp, err := api.NewCacheService(store).Sweep(cmd.Context())
				if err != nil {
					return err
				}
				return ctx.emit(cmd, resp, func(out io.Writer) {
					if resp.Removed == 0 {
						fmt.Fprintln(out, "No expired cache entries")
						return
					}
					fmt.Fprintf(out, "Swept %s\n", pluralEntries(resp.Removed))
				})
			})
		},
	}
}

func pluralEntries(n int) string {
	if n == 1 {
		return "1 cache entry"
	}
	return humanize.Comma(int64(n)) + " cache entries"
}
