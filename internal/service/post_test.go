package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
	"github.com/itchan-dev/nanabbs/internal/logger"
	"github.com/itchan-dev/nanabbs/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockPostStorage struct {
	createThreadFunc   func(ctx context.Context, creationData domain.ThreadCreationData, hashId domain.HashId) (domain.ThreadId, error)
	createResponseFunc func(ctx context.Context, creationData domain.ResponseCreationData, hashId domain.HashId, maxResponses int) (domain.ResponseNumber, error)

	createThreadCalled   bool
	createResponseCalled bool
}

func (m *MockPostStorage) CreateThread(ctx context.Context, creationData domain.ThreadCreationData, hashId domain.HashId) (domain.ThreadId, error) {
	m.createThreadCalled = true
	if m.createThreadFunc != nil {
		return m.createThreadFunc(ctx, creationData, hashId)
	}
	return 1, nil
}

func (m *MockPostStorage) CreateResponse(ctx context.Context, creationData domain.ResponseCreationData, hashId domain.HashId, maxResponses int) (domain.ResponseNumber, error) {
	m.createResponseCalled = true
	if m.createResponseFunc != nil {
		return m.createResponseFunc(ctx, creationData, hashId, maxResponses)
	}
	return 2, nil
}

// --- Helpers ---

func testLimits() config.Posting {
	return config.Posting{
		TitleMaxLen:   10,
		NameMaxLen:    8,
		MailMaxLen:    16,
		ContentMaxLen: 20,
		MaxResponses:  1000,
	}
}

func newTestPostService(storage PostStorage) *Post {
	s := NewPost(storage, utils.NewHasher("pepper"), testLimits(), logger.Discard())
	s.now = func() time.Time { return posted }
	return s
}

func validResponse() domain.ResponseCreationData {
	return domain.ResponseCreationData{
		ThreadId: 7,
		Content:  "hello",
		PosterIP: "192.0.2.1",
	}
}

// --- Tests ---

func TestPostCreateResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var got domain.ResponseCreationData
		var gotHash domain.HashId
		var gotMax int
		storage := &MockPostStorage{
			createResponseFunc: func(ctx context.Context, creationData domain.ResponseCreationData, hashId domain.HashId, maxResponses int) (domain.ResponseNumber, error) {
				got, gotHash, gotMax = creationData, hashId, maxResponses
				return 31, nil
			},
		}
		data := validResponse()
		data.Content = "  line1\r\nline2  "
		data.Mail = " sage "

		number, err := newTestPostService(storage).CreateResponse(ctx, data)
		require.NoError(t, err)
		assert.Equal(t, 31, number)
		assert.Equal(t, "line1\nline2", got.Content)
		assert.Equal(t, "sage", got.Mail)
		assert.Equal(t, posted, got.PostedAt, "missing timestamp is filled in")
		assert.Equal(t, utils.NewHasher("pepper").PosterId("192.0.2.1", posted), gotHash)
		assert.Equal(t, 1000, gotMax)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			modify func(d *domain.ResponseCreationData)
		}{
			{"empty content", func(d *domain.ResponseCreationData) { d.Content = "" }},
			{"blank content", func(d *domain.ResponseCreationData) { d.Content = " \r\n\t" }},
			{"no ip", func(d *domain.ResponseCreationData) { d.PosterIP = "" }},
			{"bad ip", func(d *domain.ResponseCreationData) { d.PosterIP = "not-an-ip" }},
			{"long name", func(d *domain.ResponseCreationData) { d.AuthorName = "123456789" }},
			{"long mail", func(d *domain.ResponseCreationData) { d.Mail = strings.Repeat("m", 17) }},
			{"long content", func(d *domain.ResponseCreationData) { d.Content = strings.Repeat("あ", 21) }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				storage := &MockPostStorage{}
				data := validResponse()
				tt.modify(&data)
				_, err := newTestPostService(storage).CreateResponse(ctx, data)
				require.Error(t, err)
				assert.True(t, errors.Is(err, internal_errors.Validation))
				assert.False(t, storage.createResponseCalled)
			})
		}
	})

	t.Run("lengths count characters", func(t *testing.T) {
		data := validResponse()
		data.Content = strings.Repeat("あ", 20)
		_, err := newTestPostService(&MockPostStorage{}).CreateResponse(ctx, data)
		assert.NoError(t, err)
	})

	t.Run("storage error", func(t *testing.T) {
		full := internal_errors.New(internal_errors.Validation, "thread 7 has reached 1000 responses")
		storage := &MockPostStorage{
			createResponseFunc: func(ctx context.Context, creationData domain.ResponseCreationData, hashId domain.HashId, maxResponses int) (domain.ResponseNumber, error) {
				return 0, full
			},
		}
		_, err := newTestPostService(storage).CreateResponse(ctx, validResponse())
		assert.ErrorIs(t, err, full)
	})
}

func TestPostCreateThread(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var got domain.ThreadCreationData
		storage := &MockPostStorage{
			createThreadFunc: func(ctx context.Context, creationData domain.ThreadCreationData, hashId domain.HashId) (domain.ThreadId, error) {
				got = creationData
				assert.Len(t, hashId, utils.PosterIdLength)
				return 8, nil
			},
		}
		id, err := newTestPostService(storage).CreateThread(ctx, domain.ThreadCreationData{
			Title:         "  title ",
			FirstResponse: domain.ResponseCreationData{Content: "first", PosterIP: "::1"},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ThreadId(8), id)
		assert.Equal(t, "title", got.Title)
		assert.Equal(t, posted, got.FirstResponse.PostedAt)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			data domain.ThreadCreationData
		}{
			{"no title", domain.ThreadCreationData{Title: " ", FirstResponse: domain.ResponseCreationData{Content: "x", PosterIP: "::1"}}},
			{"long title", domain.ThreadCreationData{Title: "12345678901", FirstResponse: domain.ResponseCreationData{Content: "x", PosterIP: "::1"}}},
			{"no content", domain.ThreadCreationData{Title: "t", FirstResponse: domain.ResponseCreationData{PosterIP: "::1"}}},
			{"no ip", domain.ThreadCreationData{Title: "t", FirstResponse: domain.ResponseCreationData{Content: "x"}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				storage := &MockPostStorage{}
				_, err := newTestPostService(storage).CreateThread(ctx, tt.data)
				require.Error(t, err)
				assert.Equal(t, internal_errors.Validation, internal_errors.KindOf(err))
				assert.False(t, storage.createThreadCalled)
			})
		}
	})

	t.Run("required messages name the field", func(t *testing.T) {
		_, err := newTestPostService(&MockPostStorage{}).CreateThread(ctx, domain.ThreadCreationData{
			FirstResponse: domain.ResponseCreationData{Content: "x", PosterIP: "::1"},
		})
		assert.Equal(t, "title is required", internal_errors.PublicMessage(err))
	})
}
