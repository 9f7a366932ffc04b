package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/streamsider/streamsider/internal/config"
	"github.com/streamsider/streamsider/internal/kick"
	"github.com/streamsider/streamsider/internal/roster"
	"github.com/streamsider/streamsider/internal/storage"
)

// ThemeKey is the synced-scope storage key holding the theme preference.
const ThemeKey = "theme"

// EventTheme is the hub event broadcast on a theme change.
const EventTheme = "theme"

// Aggregator produces full snapshots on demand.
type Aggregator interface {
	StreamersData(ctx context.Context, forceUpdate bool) []kick.Streamer
}

// Roster mutates and lists the tracked-username list.
type Roster interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, username string) error
	Remove(ctx context.Context, username string) error
}

// Validator resolves a username to its canonical profile.
type Validator interface {
	Validate(ctx context.Context, username string) (kick.Profile, bool)
}

// Refresher triggers an immediate full-refresh publication cycle.
// Implemented by *poller.Poller.
type Refresher interface {
	RefreshNow(ctx context.Context)
}

// Notifier broadcasts to connected front-ends. Implemented by *ws.Hub.
type Notifier interface {
	Broadcast(event string, data any)
	Count() int
}

// Handler is the HTTP handler for all /api/v1/* endpoints. It is the Go
// counterpart of the extension's runtime message listener: each route mirrors
// one message type the front-ends used to send.
type Handler struct {
	agg       Aggregator
	roster    Roster
	validator Validator
	refresher Refresher
	notifier  Notifier
	kv        *storage.Store
	mux       *http.ServeMux
}

// New creates a Handler and registers all routes.
func New(agg Aggregator, ro Roster, v Validator, re Refresher, n Notifier, kv *storage.Store) http.Handler {
	h := &Handler{agg: agg, roster: ro, validator: v, refresher: re, notifier: n, kv: kv, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/streamers", h.streamers)
	h.mux.HandleFunc("/api/v1/streamers/", h.removeStreamer) // subtree — extracts {username}
	h.mux.HandleFunc("/api/v1/validate", h.validate)
	h.mux.HandleFunc("/api/v1/theme", h.theme)
	h.mux.HandleFunc("/api/v1/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// streamers handles GET /api/v1/streamers (snapshot, optionally forced) and
// POST /api/v1/streamers (add a streamer).
func (h *Handler) streamers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		force := r.URL.Query().Get("force") == "true"
		jsonResp(w, http.StatusOK, h.agg.StreamersData(r.Context(), force))

	case http.MethodPost:
		h.addStreamer(w, r)

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// addStreamer validates and appends a username, then forces an immediate
// publication cycle so every surface sees the addition.
func (h *Handler) addStreamer(w http.ResponseWriter, r *http.Request) {
	var req StreamerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		jsonResp(w, http.StatusBadRequest, ActionResponse{Success: false, Error: "username is required"})
		return
	}

	err := h.roster.Add(r.Context(), req.Username)
	switch {
	case errors.Is(err, roster.ErrNotFound):
		jsonResp(w, http.StatusNotFound, ActionResponse{Success: false, Error: err.Error()})
		return
	case errors.Is(err, roster.ErrRosterFull):
		jsonResp(w, http.StatusConflict, ActionResponse{Success: false, Error: err.Error()})
		return
	case err != nil:
		slog.Error("api: add streamer failed", "username", req.Username, "err", err)
		jsonResp(w, http.StatusInternalServerError, ActionResponse{Success: false, Error: "storage failure"})
		return
	}

	h.refresher.RefreshNow(r.Context())
	jsonResp(w, http.StatusOK, ActionResponse{Success: true})
}

// removeStreamer handles DELETE /api/v1/streamers/{username}. Removal is
// idempotent and always acknowledged.
func (h *Handler) removeStreamer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	username := strings.TrimPrefix(r.URL.Path, "/api/v1/streamers/")
	if username == "" {
		jsonErr(w, http.StatusBadRequest, "username is required")
		return
	}

	if err := h.roster.Remove(r.Context(), username); err != nil {
		// Acknowledged anyway; the list is unchanged and the next cycle
		// republishes it.
		slog.Error("api: remove streamer failed", "username", username, "err", err)
		jsonResp(w, http.StatusOK, ActionResponse{Success: true})
		return
	}

	h.refresher.RefreshNow(r.Context())
	jsonResp(w, http.StatusOK, ActionResponse{Success: true})
}

// validate handles GET /api/v1/validate?username=x without touching the
// tracked list — the popup uses it for inline feedback while typing.
func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	username := r.URL.Query().Get("username")
	if strings.TrimSpace(username) == "" {
		jsonErr(w, http.StatusBadRequest, "username is required")
		return
	}

	profile, ok := h.validator.Validate(r.Context(), username)
	if !ok {
		jsonErr(w, http.StatusNotFound, "streamer not found")
		return
	}
	jsonResp(w, http.StatusOK, profile)
}

// theme handles GET and PUT /api/v1/theme. A successful PUT is broadcast to
// every connected surface.
func (h *Handler) theme(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		theme := config.DefaultTheme
		if _, err := h.kv.Get(r.Context(), storage.ScopeSynced, ThemeKey, &theme); err != nil {
			slog.Error("api: reading theme failed", "err", err)
		}
		jsonResp(w, http.StatusOK, ThemeResponse{Theme: theme})

	case http.MethodPut:
		var req ThemeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Theme) == "" {
			jsonErr(w, http.StatusBadRequest, "theme is required")
			return
		}

		if err := h.kv.Set(r.Context(), storage.ScopeSynced, ThemeKey, req.Theme); err != nil {
			slog.Error("api: saving theme failed", "theme", req.Theme, "err", err)
			jsonErr(w, http.StatusInternalServerError, "storage failure")
			return
		}

		h.notifier.Broadcast(EventTheme, ThemeResponse{Theme: req.Theme})
		jsonResp(w, http.StatusOK, ActionResponse{Success: true})

	default:
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// health returns GET /api/v1/health — tracked-list size and connected clients.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	usernames, err := h.roster.List(r.Context())
	if err != nil {
		slog.Error("api: reading tracked list failed", "err", err)
	}
	jsonResp(w, http.StatusOK, HealthResponse{
		Tracked: len(usernames),
		Clients: h.notifier.Count(),
	})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
