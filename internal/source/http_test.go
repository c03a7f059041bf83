package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestHTTPFetchAll(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("label"); got != "main" {
			t.Errorf("unexpected label: %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"documents": []map[string]string{
				{"name": "application", "ext": "yml", "content": "a: 1", "origin": "git://repo/application.yml@main"},
				{"name": "inventory-service", "ext": "yml", "content": "b: 2"},
			},
		})
	}))
	defer server.Close()

	src := NewHTTP(server.URL)
	docs, err := src.FetchAll(context.Background(), "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Origin != "git://repo/application.yml@main" {
		t.Fatalf("expected manifest origin to be kept, got %q", docs[0].Origin)
	}
	if docs[1].Origin == "" {
		t.Fatalf("expected synthesized origin for document without one")
	}
	if string(docs[1].Raw) != "b: 2" {
		t.Fatalf("unexpected content: %s", docs[1].Raw)
	}
}

func TestHTTPFetchAllRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"documents": []map[string]string{}})
	}))
	defer server.Close()

	src := NewHTTP(server.URL)
	if _, err := src.FetchAll(context.Background(), "main"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("expected at least 2 attempts, got %d", calls.Load())
	}
}

func TestHTTPFetchAllNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	src := NewHTTP(server.URL)
	if _, err := src.FetchAll(context.Background(), "missing"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHTTPFetchAllBadManifest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	src := NewHTTP(server.URL)
	if _, err := src.FetchAll(context.Background(), "main"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHTTPFetchAllServerDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	src := NewHTTP(server.URL)
	if _, err := src.FetchAll(context.Background(), "main"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
