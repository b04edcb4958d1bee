package commands

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csv2sql/internal/application"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web editor",
		Long: `Start the browser-based editor. Paste CSV, adjust each column and
copy the generated SQL. The JSON API under /api serves the same operations.

Settings come from the environment (SERVER_PORT, VERIFY_BACKEND, ...);
the flags below override them.`,
		Example: `  csv2sql serve
  csv2sql serve --port 9000 --verify-backend none`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := application.New(ctx, ConfigFrom(ctx))
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}

	fs := cmd.Flags()
	fs.String("host", "", "Interface to listen on")
	fs.Int("port", 0, "Port to listen on")
	fs.String("verify-backend", "", "Verification backend: sqlite, postgres or none")
	fs.Bool("rate-limit", true, "Limit requests per client address")
	BindEnv(fs, "host", "SERVER_HOST")
	BindEnv(fs, "port", "SERVER_PORT")
	BindEnv(fs, "verify-backend", "VERIFY_BACKEND")
	BindEnv(fs, "rate-limit", "RATE_LIMIT_ENABLED")
	return cmd
}
