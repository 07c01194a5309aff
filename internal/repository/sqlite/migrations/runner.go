// Package migrations brings the portal session schema up to date from
// the embedded SQL files. Applied files are recorded in a
// schema_migrations table so each runs exactly once.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

// Run applies every pending session-schema migration in filename order.
func Run(ctx context.Context, db *sql.DB) error {
	if err := ensureLedger(ctx, db); err != nil {
		return fmt.Errorf("ensure migration ledger: %w", err)
	}

	applied, err := appliedFiles(ctx, db)
	if err != nil {
		return fmt.Errorf("read migration ledger: %w", err)
	}

	files, err := sqlFiles()
	if err != nil {
		return fmt.Errorf("list embedded migrations: %w", err)
	}

	for _, name := range files {
		if applied[name] {
			continue
		}
		if err := apply(ctx, db, name); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		slog.Info("session schema migration applied", "file", name)
	}
	return nil
}

func ensureLedger(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func appliedFiles(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func sqlFiles() ([]string, error) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// apply executes one migration file and records it in the ledger, both
// inside a single transaction.
func apply(ctx context.Context, db *sql.DB, name string) error {
	content, err := fs.ReadFile(FS, name)
	if err != nil {
		return fmt.Errorf("read embedded file: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute sql: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
		return fmt.Errorf("record in ledger: %w", err)
	}
	return tx.Commit()
}
