// Package verify checks generated SQL against a real database engine.
//
// Verification is optional. The sqlite backend runs the statement in a
// private in-memory database; the postgres backend asks the server to plan
// it with EXPLAIN inside a read-only transaction that is always rolled back.
// Neither backend changes any data.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/csv2sql/internal/config"
)

// Backend names accepted by New.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendNone     = "none"
)

// ErrFailed wraps every rejection reported by a backend.
var ErrFailed = errors.New("verification failed")

// Verifier checks one statement. Close releases the connection.
type Verifier interface {
	Name() string
	Verify(ctx context.Context, sql string) error
	Close() error
}

// New builds the verifier selected by cfg.Backend. It returns a nil
// Verifier and no error for the "none" backend.
func New(ctx context.Context, cfg config.VerifyConfig) (Verifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendSQLite, "":
		v, err := OpenSQLite()
		if err != nil {
			return nil, err
		}
		return v, nil
	case BackendPostgres:
		if cfg.PostgresURL == "" {
			return nil, errors.New("postgres backend requires VERIFY_POSTGRES_URL")
		}
		v, err := NewPostgres(ctx, cfg.PostgresURL, int32(cfg.MaxConcurrent))
		if err != nil {
			return nil, err
		}
		return v, nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown verify backend %q", cfg.Backend)
	}
}

func failed(err error) error {
	return fmt.Errorf("%w: %w", ErrFailed, err)
}
