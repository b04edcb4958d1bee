package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/debounce"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	o := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Regenerate SQL whenever a CSV file changes",
		Long: `Generate SQL from a file, then again each time the file is saved.
Bursts of writes within the debounce window produce a single regeneration.
Errors are reported and watching continues.`,
		Example: `  csv2sql watch -o people.sql people.csv
  csv2sql watch --type age=int --copy people.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := ConfigFrom(ctx)
			path := args[0]

			regenerate := func() {
				f, err := os.Open(path)
				if err != nil {
					slog.Error("open input", "file", path, "error", err)
					return
				}
				defer f.Close()

				start := time.Now()
				g, err := o.run(ctx, f, cfg)
				if err != nil {
					msg := core.MapError(err)
					slog.Error("generate failed", "file", path, "error", err, "code", msg.Code)
					return
				}
				if err := o.deliver(ctx, cmd, cfg, g); err != nil {
					slog.Error("deliver sql", "error", err)
					return
				}
				slog.Info("sql regenerated",
					"file", path,
					"rows", len(g.parsed.Rows),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}

			return watchFile(ctx, path, cfg.Generate.Debounce, regenerate)
		},
	}

	o.addFlags(cmd.Flags())
	return cmd
}

// watchFile calls onChange once, then after every burst of changes to path
// that has been quiet for window. It returns when ctx ends. The parent
// directory is watched so editors that replace the file on save are seen.
func watchFile(ctx context.Context, path string, window time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	// Timer callbacks may overlap with each other; runs are serialized.
	var mu sync.Mutex
	run := func() {
		mu.Lock()
		defer mu.Unlock()
		onChange()
	}

	d := debounce.New(window, nil)
	defer d.Stop()

	run()
	slog.Info("watching for changes", "file", abs, "debounce", d.Window().String())

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			d.Trigger(run)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)
		}
	}
}
