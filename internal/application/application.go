// Package application wires configuration, the core service, the optional
// verifier and the web server into one runnable unit. Both the standalone
// server binary and the CLI "serve" command start the application this way.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/csv2sql/internal/config"
	"github.com/JonMunkholm/csv2sql/internal/core"
	"github.com/JonMunkholm/csv2sql/internal/metrics"
	"github.com/JonMunkholm/csv2sql/internal/verify"
	"github.com/JonMunkholm/csv2sql/internal/web"
)

// App is a fully wired csv2sql server.
type App struct {
	Config  *config.Config
	Service *core.Service
	Server  *web.Server
	Metrics *metrics.Recorder

	verifier verify.Verifier
}

// New builds the application from cfg. The caller must Run it, or Close it
// if it will not be run.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
	}

	v, err := verify.New(ctx, cfg.Verify)
	if err != nil {
		return nil, fmt.Errorf("verify backend: %w", err)
	}

	opts := []core.ServiceOption{core.WithMetrics(rec)}
	if v != nil {
		opts = append(opts, core.WithVerifier(v, core.NewLimiter(cfg.Verify.MaxConcurrent, cfg.Verify.MaxWaitTime)))
	}

	service := core.NewService(core.ServiceConfig{
		SessionTTL:    cfg.Session.TTL,
		MaxInputBytes: cfg.Generate.MaxInputBytes,
		PreviewRows:   cfg.Generate.PreviewRows,
		VerifyTimeout: cfg.Verify.Timeout,
		Naming:        Naming(cfg.Generate),
	}, opts...)

	server, err := web.NewServer(service, cfg, rec)
	if err != nil {
		if v != nil {
			_ = v.Close()
		}
		return nil, err
	}

	return &App{
		Config:   cfg,
		Service:  service,
		Server:   server,
		Metrics:  rec,
		verifier: v,
	}, nil
}

// Naming returns the column name suggestion rule selected by cfg.
func Naming(cfg config.GenerateConfig) core.NameFunc {
	if cfg.ASCIINames {
		return core.NormalizeColumnNameASCII
	}
	return core.NormalizeColumnName
}

// Run serves HTTP and sweeps idle sessions until ctx is cancelled or the
// listener fails. It then drains in-flight verifications, shuts the server
// down within the configured timeout and closes the verifier.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Service.StartSessionSweeper(gctx, a.Config.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		if err := a.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Service.WaitForVerifications(shutdownCtx); err != nil {
			slog.Warn("verifications still running at shutdown", "error", err)
		}
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		slog.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// Close releases the verifier connection.
func (a *App) Close() {
	if a.verifier == nil {
		return
	}
	if err := a.verifier.Close(); err != nil {
		slog.Warn("close verifier", "backend", a.verifier.Name(), "error", err)
	}
	a.verifier = nil
}
