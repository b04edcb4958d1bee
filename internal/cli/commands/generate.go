package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JonMunkholm/csv2sql/internal/application"
	"github.com/JonMunkholm/csv2sql/internal/clipboard"
	"github.com/JonMunkholm/csv2sql/internal/config"
	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/verify"
)

// generateOptions are the flags shared by generate and watch.
type generateOptions struct {
	types       []string
	names       []string
	exclude     []string
	mapping     string
	saveMapping string
	delimiter   string
	output      string
	verify      string
	copy        bool
	strict      bool
}

func (o *generateOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringArrayVar(&o.types, "type", nil, "Column type as field=type (text, int, bool); repeatable")
	fs.StringArrayVar(&o.names, "name", nil, "SQL column name as field=name; repeatable")
	fs.StringArrayVar(&o.exclude, "exclude", nil, "Field to leave out of the output; repeatable")
	fs.StringVarP(&o.mapping, "mapping", "m", "", "YAML file with per-column name, type and include settings")
	fs.StringVar(&o.saveMapping, "save-mapping", "", "Write the effective column mapping to this YAML file")
	fs.StringVarP(&o.delimiter, "delimiter", "d", "", "Field delimiter: auto, comma, semicolon, tab, pipe or one character")
	fs.StringVarP(&o.output, "output", "o", "", "Write SQL to this file instead of stdout")
	fs.StringVar(&o.verify, "verify", "", "Check the SQL with a database backend: sqlite or postgres")
	fs.BoolVar(&o.copy, "copy", false, "Copy the SQL to the clipboard through the terminal (OSC 52)")
	fs.BoolVar(&o.strict, "strict", false, "Fail when any row could not be parsed")
}

// generated is the outcome of one pass through the pipeline.
type generated struct {
	parsed  core.ParseResult
	configs core.ColumnConfigs
	sql     string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	o := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [file|-]",
		Short: "Turn CSV into a SQL VALUES query",
		Long: `Read delimited text with a header row and print a query that selects
every row as a literal VALUES list.

Each column is text unless configured otherwise. Integer columns keep only
their digits and boolean columns accept true or false. Generation stops at the
first value that cannot be converted.`,
		Example: `  csv2sql generate people.csv
  csv2sql generate --type age=int --type active=bool --exclude notes people.csv
  cat export.tsv | csv2sql generate -d tab --name "First Name=first" -
  csv2sql generate -m people.yaml --verify sqlite people.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFrom(ctx)

			in, source, err := openInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			defer in.Close()

			g, err := o.run(ctx, in, cfg)
			if err != nil {
				return err
			}
			slog.Debug("generated sql",
				"source", source,
				"rows", len(g.parsed.Rows),
				"columns", len(core.IncludedColumns(g.parsed.Fields, g.configs)),
				"checksum", core.Checksum(g.sql),
			)
			return o.deliver(ctx, cmd, cfg, g)
		},
	}

	o.addFlags(cmd.Flags())
	_ = cmd.RegisterFlagCompletionFunc("verify", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{verify.BackendSQLite, verify.BackendPostgres}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// run parses r and renders the SQL with every configured override applied.
func (o *generateOptions) run(ctx context.Context, r io.Reader, cfg *config.Config) (generated, error) {
	var m Mapping
	if o.mapping != "" {
		var err error
		if m, err = LoadMapping(o.mapping); err != nil {
			return generated{}, err
		}
	}

	name := o.delimiter
	if name == "" {
		name = m.Delimiter
	}
	delim, err := core.ParseDelimiter(name)
	if err != nil {
		return generated{}, err
	}

	parsed, err := core.ParseReader(ctx, r, cfg.Generate.MaxInputBytes, core.ParseOptions{Delimiter: delim})
	if err != nil {
		return generated{}, err
	}
	if parsed.Empty() {
		return generated{}, core.ErrEmptyInput
	}
	if err := o.reportParseErrors(parsed); err != nil {
		return generated{}, err
	}

	configs := core.DefaultConfigs(parsed.Fields, application.Naming(cfg.Generate))
	if err := m.Apply(parsed.Fields, configs); err != nil {
		return generated{}, err
	}
	if err := o.applyFlags(parsed.Fields, configs); err != nil {
		return generated{}, err
	}

	sql, err := core.Generate(parsed.Fields, parsed.Rows, configs)
	if err != nil {
		return generated{}, err
	}
	return generated{parsed: parsed, configs: configs, sql: sql}, nil
}

func (o *generateOptions) reportParseErrors(parsed core.ParseResult) error {
	for _, pe := range parsed.Errors {
		slog.Warn("row could not be parsed", "line", pe.Line, "error", pe.Error())
	}
	if o.strict && len(parsed.Errors) > 0 {
		return fmt.Errorf("%d row(s) could not be parsed", len(parsed.Errors))
	}
	return nil
}

// applyFlags applies --name, --type and --exclude, in that order.
func (o *generateOptions) applyFlags(fields []string, configs core.ColumnConfigs) error {
	lookup := func(field string) (core.ColumnConfig, error) {
		cfg, ok := configs[field]
		if !ok {
			return cfg, &core.ConfigError{Field: field, Reason: core.ReasonUnknown}
		}
		return cfg, nil
	}

	for _, a := range o.names {
		field, name, err := splitAssignment(a)
		if err != nil {
			return fmt.Errorf("--name: %w", err)
		}
		cfg, err := lookup(field)
		if err != nil {
			return err
		}
		cfg.TargetName = name
		configs[field] = cfg
	}

	for _, a := range o.types {
		field, tag, err := splitAssignment(a)
		if err != nil {
			return fmt.Errorf("--type: %w", err)
		}
		cfg, err := lookup(field)
		if err != nil {
			return err
		}
		if cfg.Type, err = core.ParseColumnType(tag); err != nil {
			return fmt.Errorf("column %q: %w", field, err)
		}
		configs[field] = cfg
	}

	for _, field := range o.exclude {
		cfg, err := lookup(field)
		if err != nil {
			return err
		}
		cfg.Include = false
		configs[field] = cfg
	}

	return core.ValidateConfigs(fields, configs)
}

// splitAssignment splits "field=value" at the last '=' so field names may
// contain one.
func splitAssignment(s string) (string, string, error) {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return "", "", fmt.Errorf("expected field=value, got %q", s)
	}
	return s[:i], s[i+1:], nil
}

// deliver writes, verifies, copies and records the generated SQL as the
// flags ask.
func (o *generateOptions) deliver(ctx context.Context, cmd *cobra.Command, cfg *config.Config, g generated) error {
	if o.verify != "" {
		if err := core.ValidateIdentifiers(g.parsed.Fields, g.configs); err != nil {
			return err
		}
		if err := verifySQL(ctx, cfg, o.verify, g.sql); err != nil {
			return err
		}
		slog.Info("sql verified", "backend", o.verify)
	}

	if o.output != "" {
		if err := os.WriteFile(o.output, []byte(g.sql+"\n"), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), g.sql)
	}

	if o.copy {
		if err := copyToClipboard(cmd.ErrOrStderr(), g.sql); err != nil {
			slog.Warn("could not copy to clipboard", "error", err)
		}
	}

	if o.saveMapping != "" {
		m := MappingFromConfigs(g.parsed.Fields, g.configs, delimiterName(g.parsed.Delimiter))
		if err := SaveMapping(o.saveMapping, m); err != nil {
			return err
		}
	}
	return nil
}

// verifySQL checks sql with a one-off connection to backend.
func verifySQL(ctx context.Context, cfg *config.Config, backend, sql string) error {
	vc := cfg.Verify
	vc.Backend = backend
	v, err := verify.New(ctx, vc)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	defer v.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.Verify.Timeout)
	defer cancel()
	return v.Verify(ctx, sql)
}

// copyToClipboard writes the OSC 52 sequence to w. A real terminal must be
// behind an *os.File; any other writer receives the raw sequence.
func copyToClipboard(w io.Writer, text string) error {
	if f, ok := w.(*os.File); ok {
		return clipboard.CopyToTerminal(f, text)
	}
	return clipboard.Copy(w, text)
}

func delimiterName(r rune) string {
	switch r {
	case 0:
		return ""
	case '\t':
		return "tab"
	}
	return string(r)
}
