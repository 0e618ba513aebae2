package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mysterygames/dialog-engine/internal/actions"
	"github.com/mysterygames/dialog-engine/pkg/dialog"
)

// TurnHandler handles dialog turn requests
type TurnHandler struct {
	engine *actions.Engine
	logger *slog.Logger
}

// NewTurnHandler creates a new turn handler
func NewTurnHandler(engine *actions.Engine, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		engine: engine,
		logger: logger,
	}
}

// ServeHTTP handles HTTP requests for dialog turns
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for turn endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request dialog.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body. Expected JSON with 'session_id' and 'action' fields.")
		return
	}

	if request.SessionID == "" {
		h.writeError(w, http.StatusBadRequest, "session_id cannot be empty.")
		return
	}
	if request.Action == "" {
		h.writeError(w, http.StatusBadRequest, "action cannot be empty.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response := h.engine.Handle(ctx, &request)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding turn response",
			"error", err,
			"session_id", request.SessionID,
			"action", request.Action)
	}
}

func (h *TurnHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dialog.Response{Error: msg}); err != nil {
		h.logger.Error("Error encoding error response", "error", err)
	}
}
