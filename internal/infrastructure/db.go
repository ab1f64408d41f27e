package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Dialect carries the DDL differences between the supported databases.
// Queries themselves use $n placeholders, which both drivers accept.
type Dialect struct {
	Name     string
	IDColumn string
	TimeType string
}

var (
	Postgres = Dialect{Name: DriverPostgres, IDColumn: "BIGSERIAL PRIMARY KEY", TimeType: "TIMESTAMPTZ"}
	SQLite   = Dialect{Name: DriverSQLite, IDColumn: "INTEGER PRIMARY KEY AUTOINCREMENT", TimeType: "TIMESTAMP"}
)

type DB struct {
	*sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// Open connects to PostgreSQL through a pgx pool, or to a SQLite file.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverPostgres, "postgres":
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("unable to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("unable to connect to the database: %w", err)
		}
		return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: Postgres, pool: pool}, nil
	case DriverSQLite, "sqlite":
		conn, err := sql.Open(DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// one writer at a time; also keeps a :memory: database on a single connection
		conn.SetMaxOpenConns(1)
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("unable to connect to the database: %w", err)
		}
		return &DB{DB: conn, Dialect: SQLite}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

func (db *DB) Close() error {
	err := db.DB.Close()
	if db.pool != nil {
		db.pool.Close()
	}
	return err
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn inside a transaction unless q already is one.
func inTx(ctx context.Context, q querier, fn func(q querier) error) error {
	db, ok := q.(*sql.DB)
	if !ok {
		return fn(q)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tx: %w", err)
	}
	return nil
}

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err comes from a UNIQUE constraint of
// either driver. It catches the writes that lose a race against an existence check.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
