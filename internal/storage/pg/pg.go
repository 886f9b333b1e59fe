// Package pg is the PostgreSQL engine of the response store.
package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/logger"
	"github.com/itchan-dev/nanabbs/internal/storage"

	_ "github.com/lib/pq" // Registers the PostgreSQL driver
)

//go:embed migrations/init.sql
var initSQL string

// ConnectionConfig holds database connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

// ConnString builds a lib/pq keyword/value connection string.
func ConnString(pg config.Pg) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		pg.Host, pg.Port, pg.User, pg.Password, pg.Dbname, pg.SSLMode)
}

// Connect opens the pool and verifies it with a ping.
func Connect(ctx context.Context, pg config.Pg, connCfg ConnectionConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", ConnString(pg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(connCfg.MaxOpenConns)
	db.SetMaxIdleConns(connCfg.MaxIdleConns)
	db.SetConnMaxLifetime(connCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(connCfg.ConnMaxIdleTime)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func New(ctx context.Context, pg config.Pg) (*storage.Storage, error) {
	logger.Log.Info("connecting to postgres", "host", pg.Host, "port", pg.Port, "dbname", pg.Dbname)
	db, err := Connect(ctx, pg, DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to postgres")
	return storage.New(db, storage.Dollar), nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, s *storage.Storage) error {
	if _, err := s.DB().ExecContext(ctx, initSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
