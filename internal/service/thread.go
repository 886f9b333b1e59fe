package service

import (
	"context"
	"log/slog"

	"github.com/itchan-dev/nanabbs/internal/display"
	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
	"github.com/itchan-dev/nanabbs/internal/query"
)

type ThreadService interface {
	Get(ctx context.Context, threadIdRaw, segment string, locale display.Locale) (domain.ThreadWithResponses, error)
	GetAll(ctx context.Context, threadIdRaw string, locale display.Locale) (domain.ThreadWithResponses, error)
}

type ThreadStorage interface {
	GetResponses(ctx context.Context, id domain.ThreadId, spec domain.RetrievalSpec) (domain.ThreadMeta, []domain.Response, error)
}

type Thread struct {
	storage ThreadStorage
	deriver *display.Deriver
	log     *slog.Logger
}

func NewThread(storage ThreadStorage, deriver *display.Deriver, log *slog.Logger) ThreadService {
	return &Thread{storage: storage, deriver: deriver, log: log}
}

// Get resolves /threads/{id}/{segment}.
func (s *Thread) Get(ctx context.Context, threadIdRaw, segment string, locale display.Locale) (domain.ThreadWithResponses, error) {
	id, err := query.ParseThreadId(threadIdRaw)
	if err != nil {
		return domain.ThreadWithResponses{}, err
	}
	spec, err := query.Classify(segment)
	if err != nil {
		return domain.ThreadWithResponses{}, err
	}
	return s.resolve(ctx, id, spec, locale)
}

// GetAll resolves /threads/{id}.
func (s *Thread) GetAll(ctx context.Context, threadIdRaw string, locale display.Locale) (domain.ThreadWithResponses, error) {
	id, err := query.ParseThreadId(threadIdRaw)
	if err != nil {
		return domain.ThreadWithResponses{}, err
	}
	return s.resolve(ctx, id, domain.All(), locale)
}

func (s *Thread) resolve(ctx context.Context, id domain.ThreadId, spec domain.RetrievalSpec, locale display.Locale) (domain.ThreadWithResponses, error) {
	meta, responses, err := s.storage.GetResponses(ctx, id, spec)
	if err != nil {
		logStorageError(s.log, err, "failed to fetch responses", "thread_id", id, "query", spec.String())
		return domain.ThreadWithResponses{}, err
	}

	if spec.Mode == domain.ModeSingle && len(responses) == 0 {
		return domain.ThreadWithResponses{}, internal_errors.New(internal_errors.ResponseNotFound,
			"response %d not found in thread %d", spec.Number, id)
	}

	return domain.ThreadWithResponses{
		Thread:    meta,
		Responses: s.deriver.Derive(responses, locale),
	}, nil
}

// logStorageError logs failures that are not the visitor's fault. Not-found and
// validation errors are ordinary outcomes and stay out of the error log.
func logStorageError(log *slog.Logger, err error, msg string, args ...any) {
	switch internal_errors.KindOf(err) {
	case internal_errors.StorageUnavailable, internal_errors.Internal:
		log.Error(msg, append(args, "error", err)...)
	}
}
