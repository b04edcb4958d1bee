package verify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrMultipleStatements is returned for input holding more than one statement.
var ErrMultipleStatements = errors.New("more than one statement")

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLite runs statements against an in-memory database.
type SQLite struct {
	mu   sync.Mutex
	db   *sql.DB
	conn *sql.Conn
}

// OpenSQLite opens a fresh in-memory database on one pinned connection that
// cannot attach other databases.
func OpenSQLite() (*SQLite, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Each connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(context.Background())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := sqlite.Limit(conn, sqlite3.SQLITE_LIMIT_ATTACHED, 0); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, fmt.Errorf("limit sqlite: %w", err)
	}
	return &SQLite{db: db, conn: conn}, nil
}

// NewSQLite wraps an existing handle.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Name() string { return BackendSQLite }

// Verify executes stmt and drains its rows. Scripts are refused.
func (s *SQLite) Verify(ctx context.Context, stmt string) error {
	if err := singleStatement(stmt); err != nil {
		return failed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var q queryer = s.db
	if s.conn != nil {
		q = s.conn
	}
	rows, err := q.QueryContext(ctx, stmt)
	if err != nil {
		return failed(err)
	}
	defer rows.Close()

	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return failed(err)
	}
	return nil
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// singleStatement reports an error when a ';' outside quotes or comments is
// followed by anything but whitespace, comments or more semicolons. Quoting
// follows SQLite: '...', "...", `...` and [...], with doubled quotes inside.
func singleStatement(stmt string) error {
	ended := false
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			continue
		case c == '-' && strings.HasPrefix(stmt[i:], "--"):
			j := strings.IndexByte(stmt[i:], '\n')
			if j < 0 {
				return nil
			}
			i += j
			continue
		case c == '/' && strings.HasPrefix(stmt[i:], "/*"):
			j := strings.Index(stmt[i+2:], "*/")
			if j < 0 {
				return nil
			}
			i += j + 3
			continue
		case c == ';':
			ended = true
			continue
		}

		if ended {
			return ErrMultipleStatements
		}

		var closer byte
		switch c {
		case '\'', '"', '`':
			closer = c
		case '[':
			closer = ']'
		default:
			continue
		}
		for i++; i < len(stmt); i++ {
			if stmt[i] != closer {
				continue
			}
			// A doubled quote stays inside the token; brackets have no escape.
			if closer != ']' && i+1 < len(stmt) && stmt[i+1] == closer {
				i++
				continue
			}
			break
		}
	}
	return nil
}
