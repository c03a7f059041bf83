// Package store maintains the current immutable document snapshot per label.
// Resolve callers read a snapshot pointer and keep it for the duration of
// their call; refresh builds a replacement snapshot off to the side and
// swaps it in atomically, so readers never observe a partially updated set.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/confhub/internal/loader"
	"github.com/eugenenazirov/confhub/internal/resolver"
	"github.com/eugenenazirov/confhub/internal/source"
)

// ErrRefreshTimeout indicates a refresh exceeded its deadline. The prior
// snapshot remains authoritative.
var ErrRefreshTimeout = errors.New("snapshot refresh timed out")

const (
	defaultLabel          = "main"
	defaultRefreshTimeout = 30 * time.Second
)

// RefreshResult reports the outcome of one snapshot refresh. Warnings list
// the documents that were excluded because they failed to parse; partial
// failure is tolerated only here and is never silent.
type RefreshResult struct {
	Label       string
	Documents   int
	Warnings    []string
	RefreshedAt time.Time
}

// SnapshotStore holds one immutable snapshot per label.
type SnapshotStore struct {
	src            source.Source
	logger         *zap.Logger
	defaultLabel   string
	refreshTimeout time.Duration

	refreshMu sync.Mutex // serializes refreshes; resolve reads never take it

	mu        sync.RWMutex
	snapshots map[string]*resolver.Snapshot
}

// Option configures a SnapshotStore.
type Option func(*SnapshotStore)

// WithDefaultLabel sets the label used when a request leaves it empty.
func WithDefaultLabel(label string) Option {
	return func(s *SnapshotStore) {
		if label != "" {
			s.defaultLabel = label
		}
	}
}

// WithRefreshTimeout caps how long a refresh may block on the document
// source when the caller's context carries no deadline of its own.
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(s *SnapshotStore) {
		if timeout > 0 {
			s.refreshTimeout = timeout
		}
	}
}

// New creates a SnapshotStore reading from src. No documents are loaded
// until the first refresh.
func New(src source.Source, logger *zap.Logger, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		src:            src,
		logger:         logger,
		defaultLabel:   defaultLabel,
		refreshTimeout: defaultRefreshTimeout,
		snapshots:      make(map[string]*resolver.Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultLabel returns the label used for requests that do not name one.
func (s *SnapshotStore) DefaultLabel() string {
	return s.defaultLabel
}

// Snapshot returns the current snapshot for a label, loading it on first
// use. An empty label means the default label.
func (s *SnapshotStore) Snapshot(ctx context.Context, label string) (*resolver.Snapshot, error) {
	if label == "" {
		label = s.defaultLabel
	}

	s.mu.RLock()
	snap := s.snapshots[label]
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	if _, err := s.Refresh(ctx, label); err != nil {
		return nil, err
	}

	s.mu.RLock()
	snap = s.snapshots[label]
	s.mu.RUnlock()
	return snap, nil
}

// Refresh rebuilds the snapshot for a label from the document source and
// swaps it in atomically. Only one refresh runs at a time; concurrent
// resolves keep reading the prior snapshot until the swap. On any error the
// prior snapshot is retained unchanged.
func (s *SnapshotStore) Refresh(ctx context.Context, label string) (RefreshResult, error) {
	if label == "" {
		label = s.defaultLabel
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.refreshTimeout)
		defer cancel()
	}

	raws, err := s.src.FetchAll(ctx, label)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return RefreshResult{}, fmt.Errorf("%w: label %q", ErrRefreshTimeout, label)
		}
		return RefreshResult{}, fmt.Errorf("refresh label %q: %w", label, err)
	}

	docs := make([]*resolver.Document, 0, len(raws))
	var warnings []string
	for _, raw := range raws {
		doc, err := loader.Parse(raw.Name, raw.Ext, raw.Raw, raw.Origin)
		if err != nil {
			// One bad document must not take configuration down for every
			// other service: skip it and surface the failure.
			warnings = append(warnings, err.Error())
			s.logger.Warn("excluding malformed document from snapshot",
				zap.String("label", label),
				zap.String("origin", raw.Origin),
				zap.Error(err),
			)
			continue
		}
		docs = append(docs, doc)
	}

	snap := resolver.NewSnapshot(label, docs)

	s.mu.Lock()
	s.snapshots[label] = snap
	s.mu.Unlock()

	s.logger.Info("snapshot refreshed",
		zap.String("label", label),
		zap.Int("documents", len(docs)),
		zap.Int("excluded", len(warnings)),
	)

	return RefreshResult{
		Label:       label,
		Documents:   len(docs),
		Warnings:    warnings,
		RefreshedAt: time.Now().UTC(),
	}, nil
}
