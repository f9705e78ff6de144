// Package database opens the SQL backend selected by the database URL and
// applies the embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"sotadiploma/internal/platform/config"
)

// Dialect names the SQL backend.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB is a migrated connection pool together with its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database named by cfg.URL (postgres:// or sqlite://)
// and migrates it to the latest schema. Returns nil when no URL is set.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	dialect, driver, dsn, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	db := &DB{DB: conn, Dialect: dialect}
	if err := db.configure(ctx, cfg); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return db, nil
}

func parseURL(raw string) (Dialect, string, string, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, "pgx", raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", "", fmt.Errorf("sqlite database URL has no path")
		}
		return DialectSQLite, "sqlite", path, nil
	default:
		return "", "", "", fmt.Errorf("unsupported database URL scheme in %q", raw)
	}
}

func (db *DB) configure(ctx context.Context, cfg config.DatabaseConfig) error {
	if db.Dialect == DialectSQLite {
		// Single writer.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA busy_timeout=5000",
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				return fmt.Errorf("exec %q: %w", p, err)
			}
		}
		return nil
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Health checks if the database connection is healthy.
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}
