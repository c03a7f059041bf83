package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDirFetchAllLabelDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main", "application.yml"), "a: 1")
	writeFile(t, filepath.Join(root, "main", "inventory-service.yml"), "b: 2")
	writeFile(t, filepath.Join(root, "main", "notes.txt"), "ignored")
	writeFile(t, filepath.Join(root, "develop", "application.yml"), "a: 9")

	src := NewDir(root, "main")
	docs, err := src.FetchAll(context.Background(), "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Name != "application" || docs[1].Name != "inventory-service" {
		t.Fatalf("unexpected document order: %v, %v", docs[0].Name, docs[1].Name)
	}
	if docs[0].Ext != "yml" {
		t.Fatalf("unexpected extension: %s", docs[0].Ext)
	}
	if string(docs[1].Raw) != "b: 2" {
		t.Fatalf("unexpected content: %s", docs[1].Raw)
	}
}

func TestDirFetchAllDefaultLabelFallsBackToRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "application.yml"), "a: 1")

	src := NewDir(root, "main")
	docs, err := src.FetchAll(context.Background(), "main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || docs[0].Name != "application" {
		t.Fatalf("expected root fallback to serve documents, got %v", docs)
	}
}

func TestDirFetchAllUnknownLabel(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "application.yml"), "a: 1")

	src := NewDir(root, "main")
	if _, err := src.FetchAll(context.Background(), "feature-x"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for unknown label, got %v", err)
	}
}

func TestDirFetchAllMissingRoot(t *testing.T) {
	t.Parallel()

	src := NewDir(filepath.Join(t.TempDir(), "missing"), "main")
	if _, err := src.FetchAll(context.Background(), "main"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing root, got %v", err)
	}
}

func TestDirFetchAllCancelledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "application.yml"), "a: 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := NewDir(root, "main")
	if _, err := src.FetchAll(ctx, "main"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
