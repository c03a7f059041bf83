package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/confhub/internal/api"
	"github.com/eugenenazirov/confhub/internal/config"
	"github.com/eugenenazirov/confhub/internal/resolver"
	"github.com/eugenenazirov/confhub/internal/source"
	"github.com/eugenenazirov/confhub/internal/store"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	snapshots *store.SnapshotStore
	handler   *api.Handler
	router    http.Handler
	logger    *zap.Logger
	server    *http.Server
}

// New initializes the application with all dependencies from the provided
// configuration and warms up the default-label snapshot so the first request
// does not pay the initial fetch.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	src := newSource(cfg)

	snapshots := store.New(src, logger,
		store.WithDefaultLabel(cfg.DefaultLabel),
		store.WithRefreshTimeout(cfg.RefreshTimeout),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RefreshTimeout)
	defer cancel()
	result, err := snapshots.Refresh(ctx, cfg.DefaultLabel)
	if err != nil {
		return nil, fmt.Errorf("initial snapshot load: %w", err)
	}
	for _, warning := range result.Warnings {
		logger.Warn("document excluded from initial snapshot", zap.String("reason", warning))
	}

	handler := api.NewHandler(snapshots, resolver.OSEnv())
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		snapshots: snapshots,
		handler:   handler,
		router:    router,
		logger:    logger,
		server:    NewServer(cfg, router),
	}, nil
}

// newSource selects the document source backend: an HTTP manifest agent when
// a source URL is configured, the local document tree otherwise.
func newSource(cfg config.Config) source.Source {
	if cfg.SourceURL != "" {
		return source.NewHTTP(cfg.SourceURL)
	}
	return source.NewDir(cfg.DocumentRoot, cfg.DefaultLabel)
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Store returns the snapshot store, primarily for tests and CLI tooling.
func (a *App) Store() *store.SnapshotStore {
	return a.snapshots
}
