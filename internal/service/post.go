package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
	"github.com/itchan-dev/nanabbs/internal/utils"
)

type PostService interface {
	CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.ThreadId, error)
	CreateResponse(ctx context.Context, creationData domain.ResponseCreationData) (domain.ResponseNumber, error)
}

type PostStorage interface {
	CreateThread(ctx context.Context, creationData domain.ThreadCreationData, hashId domain.HashId) (domain.ThreadId, error)
	CreateResponse(ctx context.Context, creationData domain.ResponseCreationData, hashId domain.HashId, maxResponses int) (domain.ResponseNumber, error)
}

type Post struct {
	storage  PostStorage
	hasher   *utils.Hasher
	limits   config.Posting
	validate *validator.Validate
	now      func() time.Time
	log      *slog.Logger
}

func NewPost(storage PostStorage, hasher *utils.Hasher, limits config.Posting, log *slog.Logger) *Post {
	return &Post{
		storage:  storage,
		hasher:   hasher,
		limits:   limits,
		validate: validator.New(),
		now:      time.Now,
		log:      log,
	}
}

func (s *Post) CreateThread(ctx context.Context, creationData domain.ThreadCreationData) (domain.ThreadId, error) {
	creationData.Title = strings.TrimSpace(creationData.Title)
	s.normalize(&creationData.FirstResponse)

	if err := s.validate.Struct(creationData); err != nil {
		return 0, validationError(err)
	}
	if err := checkLength("title", creationData.Title, s.limits.TitleMaxLen); err != nil {
		return 0, err
	}
	if err := s.checkResponse(creationData.FirstResponse); err != nil {
		return 0, err
	}

	first := creationData.FirstResponse
	id, err := s.storage.CreateThread(ctx, creationData, s.hasher.PosterId(first.PosterIP, first.PostedAt))
	if err != nil {
		logStorageError(s.log, err, "failed to create thread")
		return 0, err
	}
	s.log.Info("thread created", "thread_id", id)
	return id, nil
}

func (s *Post) CreateResponse(ctx context.Context, creationData domain.ResponseCreationData) (domain.ResponseNumber, error) {
	s.normalize(&creationData)

	if err := s.validate.Struct(creationData); err != nil {
		return 0, validationError(err)
	}
	if err := s.checkResponse(creationData); err != nil {
		return 0, err
	}

	hashId := s.hasher.PosterId(creationData.PosterIP, creationData.PostedAt)
	number, err := s.storage.CreateResponse(ctx, creationData, hashId, s.limits.MaxResponses)
	if err != nil {
		logStorageError(s.log, err, "failed to create response", "thread_id", creationData.ThreadId)
		return 0, err
	}
	s.log.Debug("response created", "thread_id", creationData.ThreadId, "number", number)
	return number, nil
}

func (s *Post) normalize(data *domain.ResponseCreationData) {
	data.Content = strings.TrimSpace(strings.ReplaceAll(data.Content, "\r\n", "\n"))
	data.Mail = strings.TrimSpace(data.Mail)
	if data.PostedAt.IsZero() {
		data.PostedAt = s.now()
	}
}

func (s *Post) checkResponse(data domain.ResponseCreationData) error {
	if err := checkLength("name", data.AuthorName, s.limits.NameMaxLen); err != nil {
		return err
	}
	if err := checkLength("mail", data.Mail, s.limits.MailMaxLen); err != nil {
		return err
	}
	return checkLength("content", data.Content, s.limits.ContentMaxLen)
}

// checkLength counts characters, not bytes. limit <= 0 disables the check.
func checkLength(field, value string, limit int) error {
	if limit > 0 && utf8.RuneCountInString(value) > limit {
		return internal_errors.New(internal_errors.Validation, "%s is too long (max %d characters)", field, limit)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return internal_errors.Wrap(internal_errors.Validation, err, "invalid input")
	}
	fe := fieldErrors[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "ip":
		msg = "could not determine the client address"
	default:
		msg = fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
	}
	return internal_errors.Wrap(internal_errors.Validation, err, "%s", msg)
}
