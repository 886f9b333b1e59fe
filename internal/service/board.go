package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/display"
	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
)

type BoardService interface {
	Index(ctx context.Context, locale display.Locale) (domain.Index, error)
	Info() domain.Board
}

type BoardStorage interface {
	ListThreads(ctx context.Context, limit int) ([]domain.ThreadMeta, error)
	GetResponses(ctx context.Context, id domain.ThreadId, spec domain.RetrievalSpec) (domain.ThreadMeta, []domain.Response, error)
}

type Board struct {
	storage BoardStorage
	deriver *display.Deriver
	board   domain.Board
	limits  config.Index
	log     *slog.Logger
}

func NewBoard(storage BoardStorage, deriver *display.Deriver, board domain.Board, limits config.Index, log *slog.Logger) BoardService {
	return &Board{storage: storage, deriver: deriver, board: board, limits: limits, log: log}
}

// Index lists the most recently bumped threads, with digests of the first DigestCount.
func (s *Board) Index(ctx context.Context, locale display.Locale) (domain.Index, error) {
	threads, err := s.storage.ListThreads(ctx, s.limits.ThreadCount)
	if err != nil {
		logStorageError(s.log, err, "failed to list threads", "limit", s.limits.ThreadCount)
		return domain.Index{}, err
	}

	digests := []domain.ThreadWithResponses{}
	for _, meta := range threads[:min(len(threads), s.limits.DigestCount)] {
		digest, err := s.digest(ctx, meta.Id, locale)
		if errors.Is(err, internal_errors.ThreadNotFound) {
			// gone since it was listed
			continue
		}
		if err != nil {
			logStorageError(s.log, err, "failed to fetch digest", "thread_id", meta.Id)
			return domain.Index{}, err
		}
		digests = append(digests, digest)
	}

	return domain.Index{Board: s.board, Threads: threads, Digests: digests}, nil
}

func (s *Board) digest(ctx context.Context, id domain.ThreadId, locale display.Locale) (domain.ThreadWithResponses, error) {
	meta, responses, err := s.storage.GetResponses(ctx, id, domain.Latest(s.limits.DigestResponses))
	if err != nil {
		return domain.ThreadWithResponses{}, err
	}
	return domain.ThreadWithResponses{Thread: meta, Responses: s.deriver.Derive(responses, locale)}, nil
}

func (s *Board) Info() domain.Board {
	return s.board
}
