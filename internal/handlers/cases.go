package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mysterygames/dialog-engine/internal/content"
)

// CasesHandler lists the playable cases.
type CasesHandler struct {
	repo   content.Repository
	logger *slog.Logger
}

func NewCasesHandler(repo content.Repository, logger *slog.Logger) *CasesHandler {
	return &CasesHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *CasesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for cases endpoint", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: "Method not allowed. Only GET is supported."}); err != nil {
			h.logger.Error("Failed to encode error response", "error", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.repo.EnabledCases()); err != nil {
		h.logger.Error("Failed to encode cases response", "error", err)
	}
}
