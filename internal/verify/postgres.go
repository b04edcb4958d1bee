package verify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txBeginner is the part of *pgxpool.Pool that Postgres needs.
type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Postgres plans statements on a PostgreSQL server.
type Postgres struct {
	db    txBeginner
	close func()
}

// NewPostgres parses url and creates a pool of at most maxConns.
// The pool connects lazily.
func NewPostgres(ctx context.Context, url string, maxConns int32) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	return &Postgres{db: pool, close: pool.Close}, nil
}

func (p *Postgres) Name() string { return BackendPostgres }

// Verify runs EXPLAIN on stmt in a read-only transaction. The extended
// protocol is forced so the server refuses more than one statement.
func (p *Postgres) Verify(ctx context.Context, stmt string) error {
	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, "EXPLAIN "+stmt, pgx.QueryExecModeExec)
	if err != nil {
		return failed(err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return failed(err)
	}
	return nil
}

func (p *Postgres) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
