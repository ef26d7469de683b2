package chatsession

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewsight/crewsight-platform/pkg/logging"
)

// Handler exposes the chat-widget transcript endpoint.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a chat session handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

type appendTurnRequest struct {
	Turn string `json:"turn"`
}

// AppendTurn handles POST /api/chat/sessions/{sessionID}/turns.
func (h *Handler) AppendTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	var req appendTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Turn == "" {
		http.Error(w, "turn is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Append(r.Context(), sessionID, req.Turn); err != nil {
		h.logger.Error("failed to append chat turn", "error", err, "session_id", sessionID)
		http.Error(w, "failed to record turn", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
