package intake

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crewsight/crewsight-platform/internal/chatsession"
	"github.com/crewsight/crewsight-platform/internal/leadscore"
	"github.com/crewsight/crewsight-platform/internal/leadstore"
	"github.com/crewsight/crewsight-platform/internal/notify"
	"github.com/crewsight/crewsight-platform/internal/observability/metrics"
	"github.com/crewsight/crewsight-platform/pkg/logging"
)

// Notifier fans a stored lead out to the delivery channels.
type Notifier interface {
	Dispatch(ctx context.Context, rec *leadstore.Record) notify.DispatchResult
}

// Handler handles HTTP requests for the lead intake pipeline.
type Handler struct {
	store     leadstore.Store
	notifier  Notifier
	sessions  chatsession.Store
	metrics   *metrics.IntakeMetrics
	logger    *logging.Logger
	crmAPIKey string
}

// NewHandler creates the intake handler. sessions and metrics may be nil.
func NewHandler(store leadstore.Store, notifier Notifier, sessions chatsession.Store, m *metrics.IntakeMetrics, crmAPIKey string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:     store,
		notifier:  notifier,
		sessions:  sessions,
		metrics:   m,
		logger:    logger,
		crmAPIKey: crmAPIKey,
	}
}

// CreateLeadResponse is the success envelope for POST /api/leads.
type CreateLeadResponse struct {
	Success       bool                             `json:"success"`
	LeadID        string                           `json:"leadId"`
	LeadScore     LeadScoreSummary                 `json:"leadScore"`
	Notifications map[string]notify.ChannelOutcome `json:"notifications"`
}

// LeadScoreSummary is the scoring slice of the intake response.
type LeadScoreSummary struct {
	Score     int    `json:"score"`
	Priority  string `json:"priority"`
	IsHotLead bool   `json:"isHotLead"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// CreateLead handles POST /api/leads for all submission shapes.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var raw RawSubmission
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.logger.Error("failed to decode submission", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	source := DetectSource(&raw)
	if source == SourceCRMChatbot && !h.authorizedCRM(r) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	if raw.SessionID != "" && len(raw.ConversationContext) == 0 && h.sessions != nil {
		turns, err := h.sessions.Turns(r.Context(), raw.SessionID)
		if err != nil {
			h.logger.Error("failed to load chat session", "error", err, "session_id", raw.SessionID)
		} else {
			raw.ConversationContext = turns
		}
	}

	input, err := Normalize(&raw, source)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			h.metrics.ObserveRejected(source)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: verr.Fields})
			return
		}
		h.logger.Error("failed to normalize submission", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid submission"})
		return
	}

	score := leadscore.Score(input)
	now := time.Now().UTC()
	rec := &leadstore.Record{
		ID:             uuid.NewString(),
		Input:          input,
		Score:          score,
		Status:         leadstore.StatusNew,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	if err := h.store.Put(r.Context(), rec); err != nil {
		h.logger.Error("failed to store lead", "error", err, "lead_id", rec.ID)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to store lead"})
		return
	}

	result := h.notifier.Dispatch(r.Context(), rec)

	h.logger.Info("lead accepted",
		"lead_id", rec.ID,
		"source", source,
		"score", score.Score,
		"priority", score.Priority,
		"hot", score.IsHotLead)

	h.metrics.ObserveLead(source, string(score.Priority))
	for channel, outcome := range result.PerChannel {
		h.metrics.ObserveChannel(channel, outcome.Status)
	}
	h.metrics.ObserveLatency(source, time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, CreateLeadResponse{
		Success: true,
		LeadID:  rec.ID,
		LeadScore: LeadScoreSummary{
			Score:     score.Score,
			Priority:  string(score.Priority),
			IsHotLead: score.IsHotLead,
		},
		Notifications: result.PerChannel,
	})
}

// LeadSummary is the listing projection of a stored lead. Full records
// (reasons, conversation context) stay behind the per-lead endpoints.
type LeadSummary struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Contact   string    `json:"contact"`
	Priority  string    `json:"priority"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// ListLeadsResponse is the response for listing recent leads. TotalLeads is
// the store-wide count, not the size of the returned page.
type ListLeadsResponse struct {
	TotalLeads  int           `json:"totalLeads"`
	RecentLeads []LeadSummary `json:"recentLeads"`
}

const recentLeadsPageSize = 50

// ListLeads handles GET /api/leads.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.Count(r.Context())
	if err != nil {
		h.logger.Error("failed to count leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to list leads"})
		return
	}

	leads, err := h.store.ListRecent(r.Context(), recentLeadsPageSize)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to list leads"})
		return
	}

	summaries := make([]LeadSummary, 0, len(leads))
	for _, rec := range leads {
		summaries = append(summaries, LeadSummary{
			ID:        rec.ID,
			Company:   rec.Input.CompanyName,
			Contact:   rec.Input.ContactName,
			Priority:  string(rec.Score.Priority),
			Score:     rec.Score.Score,
			Timestamp: rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{
		TotalLeads:  total,
		RecentLeads: summaries,
	})
}

type updateStatusRequest struct {
	Status     string `json:"status"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

// UpdateStatus handles PUT /api/leads/{leadID}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	updated, err := h.store.UpdateStatus(r.Context(), leadID, leadstore.Status(req.Status), req.AssignedTo)
	switch {
	case errors.Is(err, leadstore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Lead not found"})
		return
	case errors.Is(err, leadstore.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid status value"})
		return
	case err != nil:
		h.logger.Error("failed to update lead status", "error", err, "lead_id", leadID)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to update lead"})
		return
	}

	h.logger.Info("lead status updated", "lead_id", leadID, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "lead": updated})
}

// EraseLead handles DELETE /api/leads?email= for data-removal requests.
// Erasure is idempotent: a second call for the same address removes zero.
func (h *Handler) EraseLead(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email query parameter is required"})
		return
	}

	removed, err := h.store.EraseByEmail(r.Context(), email)
	if err != nil {
		h.logger.Error("failed to erase leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to erase leads"})
		return
	}

	h.logger.Info("leads erased", "removed", removed)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "removed": removed})
}

func (h *Handler) authorizedCRM(r *http.Request) bool {
	if h.crmAPIKey == "" {
		return false
	}
	key := r.Header.Get("X-API-Key")
	return subtle.ConstantTimeCompare([]byte(key), []byte(h.crmAPIKey)) == 1
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
