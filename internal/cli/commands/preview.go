package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csv2sql/internal/application"
	"github.com/JonMunkholm/csv2sql/internal/core"
)

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	var (
		delimiter string
		rows      int
		format    string
		columns   bool
	)

	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Show how the input parses",
		Long: `Parse the input and show the first rows as a table, or the list of rows
that could not be parsed. With --columns the suggested column configuration
is shown as well.`,
		Example: `  csv2sql preview people.csv
  csv2sql preview --rows 10 --format markdown people.csv
  csv2sql preview --columns -d semicolon export.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFrom(ctx)

			delim, err := core.ParseDelimiter(delimiter)
			if err != nil {
				return err
			}

			in, _, err := openInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			defer in.Close()

			parsed, err := core.ParseReader(ctx, in, cfg.Generate.MaxInputBytes, core.ParseOptions{Delimiter: delim})
			if err != nil {
				return err
			}
			if parsed.Empty() {
				return core.ErrEmptyInput
			}

			if rows <= 0 {
				rows = cfg.Generate.PreviewRows
			}
			out := cmd.OutOrStdout()
			p := core.BuildPreview(parsed, rows)
			if p.HasErrors() {
				printErrors(out, p)
				return fmt.Errorf("%d row(s) could not be parsed", p.ErrorRows)
			}

			if err := renderTable(out, format, p.Fields, p.Rows); err != nil {
				return err
			}
			if format == "" || format == FormatTable {
				_, _ = fmt.Fprintf(out, "(showing %d of %d rows, delimiter %q)\n", len(p.Rows), p.TotalRows, parsed.Delimiter)
			}

			if columns {
				configs := core.DefaultConfigs(parsed.Fields, application.Naming(cfg.Generate))
				return renderTable(out, format, []string{"field", "name", "type", "include"}, configRows(parsed.Fields, configs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter: auto, comma, semicolon, tab, pipe or one character")
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Rows to show (default from GENERATE_PREVIEW_ROWS)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: table, markdown, csv or html")
	cmd.Flags().BoolVar(&columns, "columns", false, "Also show the suggested column configuration")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return tableFormats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func printErrors(w io.Writer, p core.Preview) {
	_, _ = fmt.Fprintf(w, "%d row(s) could not be parsed:\n", p.ErrorRows)
	for _, e := range p.Errors {
		_, _ = fmt.Fprintln(w, e.String())
	}
	if hidden := p.ErrorRows - len(p.Errors); hidden > 0 {
		_, _ = fmt.Fprintf(w, "... and %d more\n", hidden)
	}
}

func configRows(fields []string, configs core.ColumnConfigs) [][]string {
	rows := make([][]string, 0, len(fields))
	for _, f := range fields {
		c := configs[f]
		rows = append(rows, []string{f, c.TargetName, c.Type.String(), strconv.FormatBool(c.Include)})
	}
	return rows
}
