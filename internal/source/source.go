// Package source provides document-source collaborators for the snapshot
// store: backends that enumerate raw configuration documents for a label.
package source

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the backing store could not be reached or read.
var ErrUnavailable = errors.New("document source unavailable")

// RawDocument is one unparsed configuration document as delivered by a
// source.
type RawDocument struct {
	// Name is the base name without extension, e.g. "inventory-service-dev".
	Name string
	// Ext is the file extension, e.g. "yml", "json" or "toml".
	Ext string
	// Raw is the unparsed document body.
	Raw []byte
	// Origin identifies the document for provenance and error reporting.
	Origin string
}

// Source fetches the full document set for one label. Implementations must
// honour ctx cancellation and return results in a deterministic order.
type Source interface {
	FetchAll(ctx context.Context, label string) ([]RawDocument, error)
}
