package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var supportedExtensions = map[string]bool{
	".yml":  true,
	".yaml": true,
	".json": true,
	".toml": true,
}

// Dir serves documents from a directory tree where each label is a
// subdirectory of the root. The default label additionally falls back to the
// root itself, so a flat directory of documents works without any label
// subdirectories.
type Dir struct {
	root         string
	defaultLabel string
}

// NewDir creates a filesystem source rooted at root.
func NewDir(root, defaultLabel string) *Dir {
	return &Dir{root: root, defaultLabel: defaultLabel}
}

// FetchAll reads every supported document under the label's directory, in
// lexical filename order.
func (d *Dir) FetchAll(ctx context.Context, label string) ([]RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(d.root, label)
	if _, err := os.Stat(dir); err != nil {
		if label != d.defaultLabel {
			return nil, fmt.Errorf("%w: unknown label %q: %v", ErrUnavailable, label, err)
		}
		dir = d.root
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	docs := make([]RawDocument, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !supportedExtensions[strings.ToLower(ext)] {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		docs = append(docs, RawDocument{
			Name:   strings.TrimSuffix(entry.Name(), ext),
			Ext:    strings.TrimPrefix(ext, "."),
			Raw:    raw,
			Origin: fmt.Sprintf("%s@%s", path, label),
		})
	}

	return docs, nil
}
