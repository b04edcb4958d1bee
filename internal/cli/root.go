// Package cli provides the command-line interface for csv2sql.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csv2sql/internal/cli/commands"
	"github.com/JonMunkholm/csv2sql/internal/config"
	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/logging"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "csv2sql",
		Short: "csv2sql - CSV to SQL VALUES generator",
		Long: `csv2sql turns delimited text with a header row into a SQL query that
selects every row as a literal VALUES list, ready to paste into any
PostgreSQL or SQLite session.

Use "generate" on the command line, "watch" to regenerate on save, or
"serve" for the browser editor.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.LoadFrom(config.Overlay(os.Getenv, commands.EnvOverrides(cmd.Flags())))
			if err != nil {
				return err
			}

			// stdout carries SQL; logs go to stderr.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format))
			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.Bool("ascii-names", false, "Fold accented letters out of suggested column names")
	pf.String("postgres-url", "", "Connection string for the postgres verify backend")
	pf.Int64("max-input-bytes", 0, "Largest accepted input in bytes")
	commands.BindEnv(pf, "log-level", "LOG_LEVEL")
	commands.BindEnv(pf, "log-format", "LOG_FORMAT")
	commands.BindEnv(pf, "ascii-names", "GENERATE_ASCII_NAMES")
	commands.BindEnv(pf, "postgres-url", "VERIFY_POSTGRES_URL")
	commands.BindEnv(pf, "max-input-bytes", "GENERATE_MAX_INPUT_BYTES")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(version))
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewPreviewCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(commands.NewServeCommand())

	return rootCmd
}

// PrintError writes err to w with the matching user-facing hint, if any.
func PrintError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	if msg := core.MapError(err); msg.Action != "" && core.IsUserFacing(err) {
		_, _ = fmt.Fprintf(w, "%s (%s)\n", msg.Action, msg.Code)
	}
}
