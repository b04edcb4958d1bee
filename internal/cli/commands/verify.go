package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/verify"
)

// verifyResult is the outcome for one backend.
type verifyResult struct {
	backend  string
	err      error
	duration time.Duration
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	var backends []string

	cmd := &cobra.Command{
		Use:   "verify [file|-]",
		Short: "Check a SQL statement against database engines",
		Long: `Run a statement against each requested backend in parallel and report
whether it was accepted. sqlite runs it in a private in-memory database;
postgres plans it with EXPLAIN inside a read-only transaction. Nothing is
written to either.`,
		Example: `  csv2sql generate people.csv | csv2sql verify
  csv2sql verify --backend sqlite,postgres query.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFrom(ctx)

			in, _, err := openInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			defer in.Close()

			sql, err := core.ReadInput(ctx, in, cfg.Generate.MaxInputBytes*2)
			if err != nil {
				return err
			}
			sql = strings.TrimSpace(sql)
			if sql == "" {
				return core.ErrEmptyInput
			}

			if len(backends) == 0 {
				backends = []string{cfg.Verify.Backend}
			}

			results := make([]verifyResult, len(backends))
			g, gctx := errgroup.WithContext(ctx)
			for i, b := range backends {
				g.Go(func() error {
					start := time.Now()
					err := verifySQL(gctx, cfg, b, sql)
					results[i] = verifyResult{backend: b, err: err, duration: time.Since(start)}
					return nil
				})
			}
			_ = g.Wait()

			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				status, detail := "ok", ""
				if r.err != nil {
					failed++
					status, detail = "failed", r.err.Error()
				}
				rows = append(rows, []string{r.backend, status, r.duration.Round(time.Millisecond).String(), detail})
			}
			if err := renderTable(cmd.OutOrStdout(), FormatTable, []string{"backend", "status", "time", "detail"}, rows); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%w on %d of %d backend(s)", verify.ErrFailed, failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&backends, "backend", "b", nil, "Backends to check with: sqlite, postgres (default from VERIFY_BACKEND)")
	_ = cmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{verify.BackendSQLite, verify.BackendPostgres}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
