package verify

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csv2sql/internal/config"
	"github.com/JonMunkholm/csv2sql/internal/core"
)

const sampleSQL = "WITH raw(name, active) AS (VALUES\n  ('Ada', true),\n  ('O''Brien', false)\n)\nSELECT *\nFROM raw"

func TestSQLite_VerifyMock(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		expectErr bool
	}{
		{
			name: "statement accepted",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(sampleSQL).WillReturnRows(
					sqlmock.NewRows([]string{"name", "active"}).
						AddRow("Ada", true).
						AddRow("O'Brien", false),
				)
			},
		},
		{
			name: "statement rejected",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(sampleSQL).WillReturnError(assert.AnError)
			},
			expectErr: true,
		},
		{
			name: "row error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(sampleSQL).WillReturnRows(
					sqlmock.NewRows([]string{"name"}).AddRow("Ada").RowError(0, assert.AnError),
				)
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
			require.NoError(t, err)
			tt.setupMock(mock)
			mock.ExpectClose()

			v := NewSQLite(db)
			err = v.Verify(context.Background(), sampleSQL)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrFailed)
				assert.ErrorIs(t, err, assert.AnError)
			} else {
				assert.NoError(t, err)
			}

			require.NoError(t, v.Close())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLite_GeneratedStatement(t *testing.T) {
	v, err := OpenSQLite()
	require.NoError(t, err)
	defer v.Close()

	fields := []string{"name", "age", "active"}
	rows := []core.Row{
		{"name": "O'Brien", "age": "42", "active": "TRUE"},
		{"name": "Ada", "age": "36", "active": "false"},
	}
	cfg := core.ColumnConfigs{
		"name":   {TargetName: "name", Type: core.TypeText, Include: true},
		"age":    {TargetName: "age", Type: core.TypeInt, Include: true},
		"active": {TargetName: "active", Type: core.TypeBool, Include: true},
	}
	stmt, err := core.Generate(fields, rows, cfg)
	require.NoError(t, err)

	assert.NoError(t, v.Verify(context.Background(), stmt))
	assert.Equal(t, BackendSQLite, v.Name())
}

func TestSQLite_RejectsBadStatement(t *testing.T) {
	v, err := OpenSQLite()
	require.NoError(t, err)
	defer v.Close()

	err = v.Verify(context.Background(), "WITH raw(a) AS (VALUES\n  (1, 2)\n)\nSELECT *\nFROM raw")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, "VER002", core.MapError(err).Code)
}

// fakeTx implements the subset of pgx.Tx that Postgres uses.
type fakeTx struct {
	pgx.Tx
	execSQL    string
	execArgs   []any
	execErr    error
	rowsErr    error
	rolledBack bool
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.execSQL = sql
	f.execArgs = args
	if f.execErr != nil {
		return nil, f.execErr
	}
	return &fakeRows{err: f.rowsErr}, nil
}

type fakeRows struct {
	pgx.Rows
	err error
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return r.err }

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	opts     pgx.TxOptions
	beginErr error
}

func (f *fakeBeginner) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	f.opts = opts
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func TestPostgres_Verify(t *testing.T) {
	t.Run("explains in read-only tx", func(t *testing.T) {
		fb := &fakeBeginner{tx: &fakeTx{}}
		p := &Postgres{db: fb}

		require.NoError(t, p.Verify(context.Background(), sampleSQL))
		assert.Equal(t, pgx.ReadOnly, fb.opts.AccessMode)
		assert.Equal(t, "EXPLAIN "+sampleSQL, fb.tx.execSQL)
		assert.Equal(t, []any{pgx.QueryExecModeExec}, fb.tx.execArgs, "extended protocol runs one statement only")
		assert.True(t, fb.tx.rolledBack)
	})

	t.Run("plan error", func(t *testing.T) {
		fb := &fakeBeginner{tx: &fakeTx{rowsErr: errors.New("cannot insert multiple commands into a prepared statement")}}
		p := &Postgres{db: fb}

		assert.ErrorIs(t, p.Verify(context.Background(), sampleSQL), ErrFailed)
	})

	t.Run("server rejects statement", func(t *testing.T) {
		fb := &fakeBeginner{tx: &fakeTx{execErr: errors.New(`syntax error at or near "VALUES"`)}}
		p := &Postgres{db: fb}

		err := p.Verify(context.Background(), sampleSQL)
		assert.ErrorIs(t, err, ErrFailed)
		assert.True(t, fb.tx.rolledBack)
	})

	t.Run("begin fails", func(t *testing.T) {
		p := &Postgres{db: &fakeBeginner{beginErr: assert.AnError}}
		err := p.Verify(context.Background(), sampleSQL)
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, ErrFailed)
	})

	assert.Equal(t, BackendPostgres, (&Postgres{}).Name())
	assert.NoError(t, (&Postgres{}).Close())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	v, err := New(ctx, config.VerifyConfig{Backend: "none"})
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = New(ctx, config.VerifyConfig{Backend: "SQLite"})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, v.Name())
	assert.NoError(t, v.Close())

	_, err = New(ctx, config.VerifyConfig{Backend: "postgres"})
	assert.Error(t, err)

	_, err = New(ctx, config.VerifyConfig{Backend: "postgres", PostgresURL: "postgres://user@localhost:notaport/db"})
	assert.Error(t, err)

	_, err = New(ctx, config.VerifyConfig{Backend: "oracle"})
	assert.ErrorContains(t, err, "unknown verify backend")
}

func TestSQLite_RefusesScripts(t *testing.T) {
	v, err := OpenSQLite()
	require.NoError(t, err)
	defer v.Close()

	dbPath := filepath.Join(t.TempDir(), "attached.db")
	tests := []struct {
		name string
		stmt string
	}{
		{"second statement", "SELECT 1; SELECT 2"},
		{"attach after select", "SELECT 1; ATTACH DATABASE '" + dbPath + "' AS p; CREATE TABLE p.t(z)"},
		{"smuggled through column list", "WITH raw(a) AS (SELECT 1) SELECT 1; ATTACH DATABASE '" + dbPath + "' AS p; WITH raw(a) AS (VALUES\n  (1)\n)\nSELECT *\nFROM raw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(context.Background(), tt.stmt)
			assert.ErrorIs(t, err, ErrFailed)
			assert.ErrorIs(t, err, ErrMultipleStatements)
		})
	}
	assert.NoFileExists(t, dbPath)
}

func TestSQLite_AttachDisabled(t *testing.T) {
	v, err := OpenSQLite()
	require.NoError(t, err)
	defer v.Close()

	dbPath := filepath.Join(t.TempDir(), "attached.db")
	err = v.Verify(context.Background(), "ATTACH DATABASE '"+dbPath+"' AS p")
	assert.ErrorIs(t, err, ErrFailed)
	assert.NoFileExists(t, dbPath)
}

func TestSingleStatement(t *testing.T) {
	tests := []struct {
		name    string
		stmt    string
		wantErr bool
	}{
		{"plain", "SELECT 1", false},
		{"trailing semicolon", "SELECT 1;", false},
		{"trailing semicolons and comment", "SELECT 1;; -- done\n", false},
		{"semicolon in string", "SELECT 'a;b'", false},
		{"doubled quote in string", "SELECT 'it''s; fine'", false},
		{"semicolon in quoted name", `WITH raw("a;b") AS (VALUES (1)) SELECT * FROM raw`, false},
		{"semicolon in bracket name", "SELECT 1 AS [a;b]", false},
		{"semicolon in block comment", "SELECT /* ; x */ 1", false},
		{"two statements", "SELECT 1; SELECT 2", true},
		{"statement after comment", "SELECT 1; /* c */ DROP TABLE t", true},
		{"quote closed early", "SELECT 'a''; SELECT 2", false},
		{"quote closes before semicolon", "SELECT 'a'; SELECT 2", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := singleStatement(tt.stmt)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMultipleStatements)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
