package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table output formats.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatHTML     = "html"
)

var tableFormats = []string{FormatTable, FormatMarkdown, FormatCSV, FormatHTML}

func renderTable(w io.Writer, format string, header []string, rows [][]string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	t.AppendHeader(toRow(header))
	for _, r := range rows {
		t.AppendRow(toRow(r))
	}

	switch format {
	case "", FormatTable:
		t.Render()
	case FormatMarkdown, "md":
		t.RenderMarkdown()
	case FormatCSV:
		t.RenderCSV()
	case FormatHTML:
		t.RenderHTML()
	default:
		return fmt.Errorf("unknown format %q (want one of %v)", format, tableFormats)
	}
	return nil
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
