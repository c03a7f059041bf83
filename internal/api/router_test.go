package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/confhub/internal/resolver"
	"github.com/eugenenazirov/confhub/internal/source"
	"github.com/eugenenazirov/confhub/internal/store"
)

func setupTestRouterWithOptions(t *testing.T, root string, opts ...RouterOption) http.Handler {
	t.Helper()

	snapshots := store.New(source.NewDir(root, "main"), zaptest.NewLogger(t))
	handler := NewHandler(snapshots, resolver.StaticEnv(nil))
	return NewRouter(handler, zaptest.NewLogger(t), opts...)
}

type blockedLimiter struct{}

func (blockedLimiter) Allow() bool { return false }

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDocuments(t, root, map[string]string{"billing.yml": "a: 1"})

	router := setupTestRouterWithOptions(t, root, WithLogging(false), WithRateLimiter(blockedLimiter{}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDocuments(t, root, map[string]string{"billing.yml": "a: 1"})

	router := setupTestRouterWithOptions(t, root, WithLogging(false), WithRateLimit(0, 0))

	for i := 0; i < 200; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDocuments(t, root, map[string]string{"billing.yml": "a: 1"})

	router := setupTestRouterWithOptions(t, root, WithLogging(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/config/billing/default", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS headers on preflight response")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDocuments(t, root, map[string]string{"billing.yml": "a: 1"})

	router := setupTestRouterWithOptions(t, root, WithLogging(false))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Fatalf("expected request ID to round-trip, got %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeDocuments(t, root, map[string]string{"billing.yml": "a: 1"})

	router := setupTestRouterWithOptions(t, root, WithLogging(false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
