package main

import (
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"spotlyric/internal/api"
)

type column struct {
	title   string
	numeric bool
}

// renderTable draws rounded borders on a terminal and falls back to
// tab-separated values for pipes, files and test buffers.
func renderTable(out io.Writer, columns []column, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft, Align: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	if isTerminal(out) {
		return tw.Render()
	}
	return tw.RenderTSV()
}

// renderSources lists lyrics pages with their bookmark marker.
func renderSources(out io.Writer, items []api.Source) string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		mark := ""
		if item.Bookmarked {
			mark = "*"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), mark, item.Site, item.Title, item.URL})
	}
	columns := []column{{title: "#", numeric: true}, {title: "Saved"}, {title: "Site"}, {title: "Title"}, {title: "URL"}}
	return renderTable(out, columns, rows) + "\n"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
