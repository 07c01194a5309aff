// Package sqlite persists portal sessions so that established sessions
// survive a portal restart.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tolonipescarias/portal/internal/repository/sqlite/migrations"
)

// DB wraps the SQLite database and hands out repositories.
type DB struct {
	sqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Set a reasonable connection pool for SQLite.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{sqlDB: db}, nil
}

// Migrate applies all unapplied schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.sqlDB)
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.sqlDB.Close()
}

// Sessions returns the session repository backed by this database.
func (d *DB) Sessions() *SessionRepository {
	return &SessionRepository{db: d.sqlDB}
}
