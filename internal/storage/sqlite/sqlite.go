// Package sqlite is the embedded engine of the response store, used for
// single-binary deployments and tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/itchan-dev/nanabbs/internal/logger"
	"github.com/itchan-dev/nanabbs/internal/storage"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

//go:embed schema.sql
var schemaSQL string

// New opens the database at path (":memory:" for a private in-memory one).
// A single connection is used: sqlite allows one writer, and each
// in-memory connection would otherwise be a separate database.
func New(ctx context.Context, path string) (*storage.Storage, error) {
	logger.Log.Info("opening sqlite database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set %q: %w", pragma, err)
		}
	}
	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}
	return storage.New(db, storage.Question), nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, s *storage.Storage) error {
	if _, err := s.DB().ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
