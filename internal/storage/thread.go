package storage

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"

	"github.com/itchan-dev/nanabbs/internal/domain"
)

const threadColumns = "id, title, response_count, created_at, last_bumped_at"

const responseColumns = "thread_id, number, author_name, mail, posted_at, hash_id, content"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (domain.ThreadMeta, error) {
	var meta domain.ThreadMeta
	var created, bumped int64
	if err := row.Scan(&meta.Id, &meta.Title, &meta.ResponseCount, &created, &bumped); err != nil {
		return domain.ThreadMeta{}, err
	}
	meta.CreatedAt = fromMicros(created)
	meta.LastBumpedAt = fromMicros(bumped)
	return meta, nil
}

func scanResponse(row rowScanner) (domain.Response, error) {
	var r domain.Response
	var posted int64
	if err := row.Scan(&r.ThreadId, &r.Number, &r.AuthorName, &r.Mail, &posted, &r.HashId, &r.Content); err != nil {
		return domain.Response{}, err
	}
	r.PostedAt = fromMicros(posted)
	return r, nil
}

func (s *Storage) getThreadMeta(ctx context.Context, q Querier, id domain.ThreadId) (domain.ThreadMeta, error) {
	meta, err := scanThread(q.QueryRowContext(ctx, s.rebind(`
		SELECT `+threadColumns+`
		FROM threads
		WHERE id = ?
	`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ThreadMeta{}, threadNotFound(id)
		}
		return domain.ThreadMeta{}, unavailable(err, "failed to fetch thread metadata")
	}
	return meta, nil
}

// GetThreadMeta returns the thread row alone.
func (s *Storage) GetThreadMeta(ctx context.Context, id domain.ThreadId) (domain.ThreadMeta, error) {
	return s.getThreadMeta(ctx, s.db, id)
}

// GetResponses returns the thread and the responses selected by spec, ascending by number.
// A window that selects nothing yields an empty slice, not an error.
func (s *Storage) GetResponses(ctx context.Context, id domain.ThreadId, spec domain.RetrievalSpec) (domain.ThreadMeta, []domain.Response, error) {
	meta, err := s.getThreadMeta(ctx, s.db, id)
	if err != nil {
		return domain.ThreadMeta{}, nil, err
	}

	where := []string{"thread_id = ?"}
	args := []any{id}
	descending := false
	limit := 0
	switch {
	case spec.IsAll():
	case spec.Mode == domain.ModeLatest:
		if spec.Count <= 0 {
			return meta, []domain.Response{}, nil
		}
		descending, limit = true, spec.Count
	case spec.Mode == domain.ModeSingle:
		where = append(where, "number = ?")
		args = append(args, spec.Number)
	case spec.Mode == domain.ModeRange:
		if spec.Start.Closed && spec.End.Closed && spec.Start.Number > spec.End.Number {
			return meta, []domain.Response{}, nil
		}
		// an open bound is simply left out, which clamps it to the first or last response
		if spec.Start.Closed {
			where = append(where, "number >= ?")
			args = append(args, spec.Start.Number)
		}
		if spec.End.Closed {
			where = append(where, "number <= ?")
			args = append(args, spec.End.Number)
		}
	}

	query := "SELECT " + responseColumns + " FROM responses WHERE " + strings.Join(where, " AND ")
	if descending {
		query += " ORDER BY number DESC LIMIT ?"
		args = append(args, limit)
	} else {
		query += " ORDER BY number"
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return domain.ThreadMeta{}, nil, unavailable(err, "failed to fetch responses ("+describe(spec)+")")
	}
	defer rows.Close()

	responses := []domain.Response{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return domain.ThreadMeta{}, nil, unavailable(err, "failed to scan response")
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return domain.ThreadMeta{}, nil, unavailable(err, "rows iteration error")
	}

	if descending {
		slices.Reverse(responses)
	}
	return reconcileCount(meta, responses), responses, nil
}

// reconcileCount covers a response posted between the meta read and the
// response read. Numbers are contiguous, so the last one shown is a lower bound
// of the count.
func reconcileCount(meta domain.ThreadMeta, responses []domain.Response) domain.ThreadMeta {
	if n := len(responses); n > 0 && responses[n-1].Number > meta.ResponseCount {
		meta.ResponseCount = responses[n-1].Number
	}
	return meta
}

// ListThreads returns the most recently bumped threads first.
func (s *Storage) ListThreads(ctx context.Context, limit int) ([]domain.ThreadMeta, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT `+threadColumns+`
		FROM threads
		ORDER BY last_bumped_at DESC, id DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, unavailable(err, "failed to list threads")
	}
	defer rows.Close()

	threads := []domain.ThreadMeta{}
	for rows.Next() {
		meta, err := scanThread(rows)
		if err != nil {
			return nil, unavailable(err, "failed to scan thread")
		}
		threads = append(threads, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "rows iteration error")
	}
	return threads, nil
}

// CreateThread inserts the thread and its first response in one transaction.
func (s *Storage) CreateThread(ctx context.Context, creationData domain.ThreadCreationData, hashId domain.HashId) (domain.ThreadId, error) {
	var id domain.ThreadId
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		createdTs := toMicros(creationData.FirstResponse.PostedAt)
		err := tx.QueryRowContext(ctx, s.rebind(`
			INSERT INTO threads (title, response_count, created_at, last_bumped_at)
			VALUES (?, 0, ?, ?)
			RETURNING id
		`), creationData.Title, createdTs, createdTs).Scan(&id)
		if err != nil {
			return unavailable(err, "failed to insert thread")
		}

		first := creationData.FirstResponse
		first.ThreadId = id
		_, err = s.createResponse(ctx, tx, first, hashId, 0)
		return err
	})
	if err != nil {
		return 0, passthrough(err, "failed to create thread")
	}
	return id, nil
}
