package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/threads/{id}/{query}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/threads/{id}/{query}", "404"))
	for _, path := range []string{"/threads/7/l50", "/threads/8/1-10"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/threads/{id}/{query}", "404"))

	assert.Equal(t, 2.0, after-before)
	assert.Equal(t, 0.0, testutil.ToFloat64(requestsInFlight))
}

func TestRoutePathUnmatched(t *testing.T) {
	assert.Equal(t, "unmatched", routePath(httptest.NewRequest(http.MethodGet, "/x", nil)))
}
