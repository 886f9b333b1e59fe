package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/itchan-dev/nanabbs/internal/api"
	"github.com/itchan-dev/nanabbs/internal/config"
	"github.com/itchan-dev/nanabbs/internal/logger"
	"github.com/itchan-dev/nanabbs/internal/setup"
	"github.com/itchan-dev/nanabbs/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, burst int) http.Handler {
	t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.Public.Storage.SQLitePath = ":memory:"
	cfg.Public.Posting.RateLimit = config.RateLimit{Interval: time.Hour, Burst: burst}
	cfg.Private.HashSalt = "pepper"

	store, err := sqlite.New(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(ctx, store))

	deps, err := setup.NewDependencies(&cfg, store, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(deps.Close)

	return New(deps)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(target string, form url.Values, addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = addr
	return req
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestBoardFlow(t *testing.T) {
	h := setupRouter(t, 100)

	rec := do(h, post("/threads", url.Values{"title": {"first thread"}, "content": {"response 1"}}, "192.0.2.1:1000"))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, "/threads/1", rec.Header().Get("Location"))

	for n := 2; n <= 30; n++ {
		rec := do(h, post("/threads/1/responses", url.Values{"content": {fmt.Sprintf("response %d", n)}}, "192.0.2.1:1000"))
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
		require.Equal(t, fmt.Sprintf("/threads/1/l50#r%d", n), rec.Header().Get("Location"))
	}

	t.Run("latest window", func(t *testing.T) {
		rec := do(h, get("/threads/1/l5"))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `id="r26"`)
		assert.Contains(t, body, `id="r30"`)
		assert.NotContains(t, body, `id="r25"`)
		assert.Contains(t, body, "名無しさん")
	})

	t.Run("open range", func(t *testing.T) {
		body := do(h, get("/threads/1/-3")).Body.String()
		assert.Contains(t, body, `id="r1"`)
		assert.Contains(t, body, `id="r3"`)
		assert.NotContains(t, body, `id="r4"`)
		assert.Contains(t, body, `href="/threads/1/4-"`)
	})

	t.Run("whole thread", func(t *testing.T) {
		for _, path := range []string{"/threads/1", "/threads/1/", "/threads/1/nonsense"} {
			rec := do(h, get(path))
			assert.Equal(t, http.StatusOK, rec.Code, path)
			assert.Contains(t, rec.Body.String(), `id="r1"`, path)
			assert.Contains(t, rec.Body.String(), `id="r30"`, path)
		}
	})

	t.Run("errors", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(h, get("/threads/1/31")).Code)
		assert.Equal(t, http.StatusNotFound, do(h, get("/threads/2/l5")).Code)
		assert.Equal(t, http.StatusBadRequest, do(h, get("/threads/abc/l5")).Code)
		assert.Equal(t, http.StatusBadRequest, do(h, get("/threads/1/0")).Code)
		assert.Equal(t, http.StatusBadRequest, do(h, post("/threads/1/responses", url.Values{"content": {"  "}}, "192.0.2.1:1000")).Code)
	})

	t.Run("index lists the thread", func(t *testing.T) {
		rec := do(h, get("/"))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "1: first thread (30)")
		// the digest carries the latest ten responses and a reply form
		assert.Contains(t, body, `id="thread-1"`)
		assert.Contains(t, body, `id="r21"`)
		assert.Contains(t, body, `id="r30"`)
		assert.NotContains(t, body, `id="r20"`)
		assert.Contains(t, body, `action="/threads/1/responses"`)
	})
}

func TestPostingIsRateLimited(t *testing.T) {
	h := setupRouter(t, 2)

	rec := do(h, post("/threads", url.Values{"title": {"t"}, "content": {"1"}}, "192.0.2.1:1000"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = do(h, post("/threads/1/responses", url.Values{"content": {"2"}}, "192.0.2.1:1000"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(h, post("/threads/1/responses", url.Values{"content": {"3"}}, "192.0.2.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// reading is not throttled
	assert.Equal(t, http.StatusOK, do(h, get("/threads/1")).Code)
	// another client has its own budget
	rec = do(h, post("/threads/1/responses", url.Values{"content": {"3"}}, "192.0.2.9:1000"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAmbientRoutes(t *testing.T) {
	h := setupRouter(t, 10)

	rec := do(h, get("/health"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	do(h, get("/threads/1/l5"))
	rec = do(h, get("/metrics"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/threads/{id}/{query}"`)

	req := get("/")
	req.Header.Set("Accept-Encoding", "gzip")
	rec = do(h, req)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	assert.Equal(t, http.StatusMethodNotAllowed, do(h, httptest.NewRequest(http.MethodDelete, "/threads/1", nil)).Code)
}

func TestReadAPI(t *testing.T) {
	h := setupRouter(t, 100)

	require.Equal(t, http.StatusSeeOther, do(h, post("/threads", url.Values{"title": {"api"}, "content": {"1"}}, "192.0.2.1:1000")).Code)
	for n := 2; n <= 5; n++ {
		mail := ""
		if n == 5 {
			mail = "sage"
		}
		rec := do(h, post("/threads/1/responses", url.Values{"content": {fmt.Sprint(n)}, "mail": {mail}}, "192.0.2.1:1000"))
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	}

	req := get("/v1/threads/1/l2")
	req.Header.Set("Accept-Language", "en")
	rec := do(h, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got api.ThreadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5, got.Thread.ResponseCount)
	require.Len(t, got.Responses, 2)
	assert.Equal(t, 4, got.Responses[0].Number)
	assert.Equal(t, 5, got.Responses[1].Number)
	assert.True(t, got.Responses[1].Sage)
	assert.Len(t, got.Responses[0].HashId, 8)

	rec = do(h, get("/v1/threads/1/9"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = do(h, get("/v1/threads"))
	require.Equal(t, http.StatusOK, rec.Code)
	var index api.IndexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &index))
	require.Len(t, index.Threads, 1)
	assert.Equal(t, "api", index.Threads[0].Title)

	t.Run("cors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/threads/1", nil)
		req.Header.Set("Origin", "https://reader.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := do(h, req)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestReady(t *testing.T) {
	h := setupRouter(t, 10)
	rec := do(h, get("/ready"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
