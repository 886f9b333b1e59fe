package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	t.Run("kind matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading page: %w", New(ThreadNotFound, "thread %d not found", 7))
		assert.True(t, errors.Is(err, ThreadNotFound))
		assert.False(t, errors.Is(err, ResponseNotFound))
		assert.Equal(t, ThreadNotFound, KindOf(err))
	})

	t.Run("cause stays reachable", func(t *testing.T) {
		err := Wrap(StorageUnavailable, sql.ErrConnDone, "failed to fetch responses")
		assert.True(t, errors.Is(err, StorageUnavailable))
		assert.True(t, errors.Is(err, sql.ErrConnDone))
		assert.Equal(t, "failed to fetch responses: "+sql.ErrConnDone.Error(), err.Error())
	})

	t.Run("foreign errors are internal", func(t *testing.T) {
		err := errors.New("boom")
		assert.Equal(t, Internal, KindOf(err))
		assert.Equal(t, string(Internal), PublicMessage(err))
	})

	t.Run("empty message falls back to kind", func(t *testing.T) {
		err := &Error{Kind: InvalidQuery}
		assert.Equal(t, "invalid query", err.Error())
		assert.Equal(t, "invalid query", PublicMessage(err))
	})
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{InvalidIdentifier, http.StatusBadRequest},
		{InvalidQuery, http.StatusBadRequest},
		{Validation, http.StatusBadRequest},
		{ThreadNotFound, http.StatusNotFound},
		{ResponseNotFound, http.StatusNotFound},
		{RateLimited, http.StatusTooManyRequests},
		{StorageUnavailable, http.StatusServiceUnavailable},
		{Canceled, StatusClientClosedRequest},
		{Internal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(New(tt.kind, "x")))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("plain")))
}
