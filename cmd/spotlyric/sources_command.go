package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spotlyric/internal/sources"
)

type sourcesReport struct {
	File    string   `json:"file"`
	Filter  bool     `json:"filter"`
	Sources []string `json:"sources"`
}

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the preferred lyrics sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			list, err := sources.Load(cfg.Sources.File)
			if err != nil {
				return err
			}
			report := sourcesReport{File: cfg.Sources.File, Filter: cfg.Sources.Filter, Sources: list.Sources()}
			if report.Sources == nil {
				report.Sources = []string{}
			}
			return ctx.emit(cmd, report, func(out io.Writer) {
				if len(report.Sources) == 0 {
					fmt.Fprintf(out, "No preferred sources in %s; all search results are shown\n", report.File)
					return
				}
				fmt.Fprintf(out, "Preferred sources (%s, filter %s):\n", report.File, yesNo(report.Filter))
				for _, entry := range report.Sources {
					fmt.Fprintf(out, "  - %s\n", entry)
				}
			})
		},
	}
}
