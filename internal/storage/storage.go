// Package storage holds the SQL shared by the postgres and sqlite engines.
//
// Queries are written with '?' placeholders; each engine supplies a Rebind
// that rewrites them for its driver. Instants are stored as unix microseconds
// so both engines scan them the same way.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Rebind rewrites '?' placeholders for a driver.
type Rebind func(query string) string

// Question leaves queries untouched (sqlite).
func Question(query string) string {
	return query
}

// Dollar rewrites '?' into $1, $2, ... (postgres).
func Dollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

type Storage struct {
	db     *sql.DB
	rebind Rebind
}

func New(db *sql.DB, rebind Rebind) *Storage {
	return &Storage{db: db, rebind: rebind}
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable(err, "failed to ping database")
	}
	return nil
}

// WithTx runs fn in a transaction, rolling back when fn fails.
func (s *Storage) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err, "failed to begin transaction")
	}
	defer tx.Rollback() // No-op if transaction is already committed

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return unavailable(err, "failed to commit transaction")
	}
	return nil
}

// unavailable wraps a driver failure. A caller that gave up is not a storage failure.
func unavailable(err error, msg string) error {
	if errors.Is(err, context.Canceled) {
		return internal_errors.Wrap(internal_errors.Canceled, err, "%s", msg)
	}
	return internal_errors.Wrap(internal_errors.StorageUnavailable, err, "%s", msg)
}

func threadNotFound(id domain.ThreadId) error {
	return internal_errors.New(internal_errors.ThreadNotFound, "thread %d not found", id)
}

func fromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

// passthrough keeps errors that already carry a kind, everything else is a storage failure.
func passthrough(err error, msg string) error {
	var e *internal_errors.Error
	if errors.As(err, &e) {
		return err
	}
	return unavailable(err, msg)
}

func describe(spec domain.RetrievalSpec) string {
	return fmt.Sprintf("%s %q", spec.Mode, spec.String())
}
