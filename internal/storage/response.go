package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/itchan-dev/nanabbs/internal/display"
	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
)

// CreateResponse appends a response to a thread and returns its number.
// maxResponses <= 0 means no limit.
func (s *Storage) CreateResponse(ctx context.Context, creationData domain.ResponseCreationData, hashId domain.HashId, maxResponses int) (domain.ResponseNumber, error) {
	var number domain.ResponseNumber
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		number, err = s.createResponse(ctx, tx, creationData, hashId, maxResponses)
		return err
	})
	if err != nil {
		return 0, passthrough(err, "failed to create response")
	}
	return number, nil
}

func (s *Storage) createResponse(ctx context.Context, tx *sql.Tx, creationData domain.ResponseCreationData, hashId domain.HashId, maxResponses int) (domain.ResponseNumber, error) {
	postedTs := toMicros(creationData.PostedAt)
	sage := display.IsSage(creationData.Mail)
	limit := maxResponses
	if limit <= 0 {
		limit = maxInt32
	}

	// The row lock taken by UPDATE serialises numbering within a thread.
	// A sage response keeps last_bumped_at as it was.
	var number domain.ResponseNumber
	err := tx.QueryRowContext(ctx, s.rebind(`
		UPDATE threads
		SET response_count = response_count + 1,
		    last_bumped_at = CASE WHEN ? THEN last_bumped_at ELSE ? END
		WHERE id = ? AND response_count < ?
		RETURNING response_count
	`), sage, postedTs, creationData.ThreadId, limit).Scan(&number)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, unavailable(err, "failed to update thread")
		}
		// either the thread is missing or it is full
		if _, err := s.getThreadMeta(ctx, tx, creationData.ThreadId); err != nil {
			return 0, err
		}
		return 0, internal_errors.New(internal_errors.Validation, "thread %d has reached %d responses", creationData.ThreadId, limit)
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO responses (`+responseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), creationData.ThreadId, number, creationData.AuthorName, creationData.Mail, postedTs, hashId, creationData.Content)
	if err != nil {
		return 0, unavailable(err, "failed to insert response")
	}
	return number, nil
}

const maxInt32 = 1<<31 - 1
