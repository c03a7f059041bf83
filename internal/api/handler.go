package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eugenenazirov/confhub/internal/resolver"
	"github.com/eugenenazirov/confhub/internal/source"
	"github.com/eugenenazirov/confhub/internal/store"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the snapshot store and environment lookup into HTTP handlers.
type Handler struct {
	store *store.SnapshotStore
	env   resolver.Lookup

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(snapshots *store.SnapshotStore, env resolver.Lookup, opts ...HandlerOption) *Handler {
	h := &Handler{
		store: snapshots,
		env:   env,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	service := r.PathValue("service")
	profiles := parseProfiles(r.PathValue("profiles"))
	label := r.PathValue("label")

	snap, err := h.store.Snapshot(r.Context(), label)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	effective, err := resolver.Resolve(resolver.Request{
		Service:  service,
		Profiles: profiles,
		Label:    label,
	}, snap, h.env)
	if err != nil {
		writeResolveError(w, err)
		return
	}

	resp := resolveResponse{
		Service:    effective.Service,
		Profiles:   effective.Profiles,
		Label:      effective.Label,
		Sources:    effective.Sources,
		Properties: effective.Properties,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
			return
		}
	}

	result, err := h.store.Refresh(r.Context(), req.Label)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := refreshResponse{
		Label:       result.Label,
		Documents:   result.Documents,
		Warnings:    result.Warnings,
		RefreshedAt: result.RefreshedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleServices(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Snapshot(r.Context(), "")
	if err != nil {
		writeStoreError(w, err)
		return
	}

	resp := servicesResponse{
		Label:    snap.Label(),
		Services: snap.Services(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseProfiles splits the comma-separated profiles path segment. An empty
// or "default" segment yields nil, letting the resolver apply its default.
func parseProfiles(segment string) []string {
	var profiles []string
	for _, part := range strings.Split(segment, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		profiles = append(profiles, part)
	}
	if len(profiles) == 1 && profiles[0] == "default" {
		return nil
	}
	return profiles
}

func writeResolveError(w http.ResponseWriter, err error) {
	var placeholder *resolver.PlaceholderError
	switch {
	case errors.Is(err, resolver.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, resolver.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "Service not found", err.Error())
	case errors.As(err, &placeholder):
		writeError(w, http.StatusUnprocessableEntity, "Unresolved placeholder", placeholder.Error(),
			"Define the environment variable or add a ${"+placeholder.Variable+":default} fallback")
	default:
		writeInternalError(w, err)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRefreshTimeout):
		writeError(w, http.StatusGatewayTimeout, "Refresh timed out", err.Error())
	case errors.Is(err, source.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "Document source unavailable", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type resolveResponse struct {
	Service    string         `json:"service"`
	Profiles   []string       `json:"profiles"`
	Label      string         `json:"label"`
	Sources    []string       `json:"sources"`
	Properties map[string]any `json:"properties"`
}

type refreshRequest struct {
	Label string `json:"label"`
}

type refreshResponse struct {
	Label       string    `json:"label"`
	Documents   int       `json:"documents"`
	Warnings    []string  `json:"warnings,omitempty"`
	RefreshedAt time.Time `json:"refreshedAt"`
}

type servicesResponse struct {
	Label    string   `json:"label"`
	Services []string `json:"services"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
