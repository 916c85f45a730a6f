package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/advisor"
	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/planfile"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
)

const maxPlanBytes = 1 << 20 // 1 MiB is plenty for a text plan

// PlansHandler handles budget plan upload and AI feedback.
type PlansHandler struct {
	sessions *session.Manager
	archive  *planfile.Archive
	advisor  *advisor.Advisor
	log      zerolog.Logger
}

// NewPlansHandler creates a new plans handler. archive may be disabled and
// adv may be nil-keyed; both degrade gracefully.
func NewPlansHandler(sessions *session.Manager, archive *planfile.Archive, adv *advisor.Advisor, log zerolog.Logger) *PlansHandler {
	return &PlansHandler{sessions: sessions, archive: archive, advisor: adv, log: log}
}

type planRequest struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

func (h *PlansHandler) readPlan(w http.ResponseWriter, r *http.Request) (domain.BudgetPlan, bool) {
	var plan domain.BudgetPlan

	ct := r.Header.Get("Content-Type")
	if ct == "text/plain" || ct == "text/markdown" {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes))
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Failed to read plan body")
			return plan, false
		}
		plan.FileName = r.Header.Get("X-File-Name")
		if plan.FileName == "" {
			plan.FileName = "plan.txt"
		}
		plan.Content = string(data)
	} else {
		var req planRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxPlanBytes)).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return plan, false
		}
		plan.FileName = req.FileName
		plan.Content = req.Content
	}

	if plan.Content == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Plan content is empty")
		return plan, false
	}
	if plan.FileName == "" {
		plan.FileName = "plan.txt"
	}
	return plan, true
}

// Upload handles POST /api/plans. The plan replaces any previous one and is
// archived to object storage when a bucket is configured. Upload is allowed
// even while the initial load is still in flight.
func (h *PlansHandler) Upload(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	plan, ok := h.readPlan(w, r)
	if !ok {
		return
	}

	if _, err := s.Dispatcher().UploadPlan(plan); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}

	if h.archive.Enabled() {
		object := h.archive.ObjectName(s.PrincipalID(), plan.FileName, time.Now())
		if err := h.archive.Store(r.Context(), object, plan.Content); err != nil {
			// Archival is best effort; the plan is already applied locally.
			h.log.Warn().Err(err).Str("object", object).Msg("plan archival failed")
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"fileName": plan.FileName})
}

// Feedback handles POST /api/plans/feedback: runs the uploaded plan through
// the AI advisor and returns its markdown feedback.
func (h *PlansHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	plan := s.Snapshot().Plan
	if plan.IsZero() {
		middleware.WriteError(w, http.StatusNotFound, "No budget plan uploaded yet")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	feedback, err := h.advisor.Analyze(ctx, plan.Content)
	if err != nil {
		if errors.Is(err, advisor.ErrNotConfigured) {
			middleware.WriteError(w, http.StatusServiceUnavailable,
				"AI feedback is unavailable. Set a valid GEMINI_API_KEY and restart the server.")
			return
		}
		h.log.Error().Err(err).Msg("plan feedback failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to analyze the plan")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"fileName": plan.FileName,
		"feedback": feedback,
	})
}
