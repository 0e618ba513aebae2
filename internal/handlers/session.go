package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mysterygames/dialog-engine/internal/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionHandler exposes session snapshots and session logs for debugging
// and play-test tooling.
//
// Routes:
// GET /v1/sessions/{id}     - Read the session snapshot
// GET /v1/sessions/{id}/log - Read the session log
type SessionHandler struct {
	store  storage.SessionStore
	logger *slog.Logger
}

func NewSessionHandler(store storage.SessionStore, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for session endpoint", "method", r.Method)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	id, rest, _ := strings.Cut(path, "/")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	switch rest {
	case "":
		h.handleReadSession(w, r, id)
	case "log":
		h.handleReadLog(w, r, id)
	default:
		h.writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *SessionHandler) handleReadSession(w http.ResponseWriter, r *http.Request, id string) {
	s, err := h.store.GetSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id)
		h.writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if s == nil {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(s); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionHandler) handleReadLog(w http.ResponseWriter, r *http.Request, id string) {
	entries, err := h.store.SessionLog(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session log", "error", err, "session_id", id)
		h.writeError(w, http.StatusInternalServerError, "Failed to load session log")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		h.logger.Error("Failed to encode session log response", "error", err)
	}
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
