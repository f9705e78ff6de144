package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const migrationsTable = "schema_migrations"

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every pending migration for the connection's dialect.
func (db *DB) Migrate() error {
	fsPath := "migrations/" + string(db.Dialect)

	sourceDriver, err := iofs.New(migrationsFS, fsPath)
	if err != nil {
		return fmt.Errorf("migrate %s: init source: %w", fsPath, err)
	}

	var dbDriver migratedb.Driver
	switch db.Dialect {
	case DialectPostgres:
		dbDriver, err = migratepostgres.WithInstance(db.DB, &migratepostgres.Config{
			MigrationsTable: migrationsTable,
		})
	case DialectSQLite:
		dbDriver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{
			MigrationsTable: migrationsTable,
		})
	default:
		return fmt.Errorf("migrate: unknown dialect %q", db.Dialect)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: init db driver: %w", fsPath, err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, string(db.Dialect), dbDriver)
	if err != nil {
		return fmt.Errorf("migrate %s: init migrator: %w", fsPath, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: up: %w", fsPath, err)
	}
	return nil
}
