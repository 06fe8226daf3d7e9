// Package database handles the initialization and connection to the SQLite db
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultPath returns ~/.plazo/plazo.db
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".plazo", "plazo.db"), nil
}

// InitDB opens the database at path, creating its directory, applies the
// connection pragmas and runs migrations. An empty path uses DefaultPath.
func InitDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite benefits from a single writer connection; it also keeps an
	// in-memory database alive across calls
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := configure(ctx, db); err != nil {
		closeQuietly(db)
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// configure applies the per-connection pragmas
func configure(ctx context.Context, db *sql.DB) error {
	pragmas := []struct {
		name string
		stmt string
	}{
		// Required for ON DELETE CASCADE on dependency edges
		{"foreign keys", "PRAGMA foreign_keys = ON"},
		{"WAL mode", "PRAGMA journal_mode = WAL"},
		// SQLite retries a locked database for this long before SQLITE_BUSY
		{"busy timeout", "PRAGMA busy_timeout = 5000"},
	}

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p.stmt); err != nil {
			slog.Error("failed to apply pragma", "pragma", p.name, "error", err)
			return fmt.Errorf("failed to enable %s: %w", p.name, err)
		}
	}
	return nil
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing db", "error", err)
	}
}
