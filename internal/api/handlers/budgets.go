package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
)

// BudgetsHandler handles budget upsert and delete.
type BudgetsHandler struct {
	sessions *session.Manager
	log      zerolog.Logger
}

// NewBudgetsHandler creates a new budgets handler.
func NewBudgetsHandler(sessions *session.Manager, log zerolog.Logger) *BudgetsHandler {
	return &BudgetsHandler{sessions: sessions, log: log}
}

// Set handles POST /api/budgets: upsert by category. The limit must be
// positive; the zero-guard-free percentage math depends on it.
func (h *BudgetsHandler) Set(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	var b domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if b.Category == "" || !b.Limit.IsPositive() {
		middleware.WriteError(w, http.StatusBadRequest, "Budget requires a category and a positive limit")
		return
	}

	if _, err := s.Dispatcher().SetBudget(b); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/budgets/:category. Transactions in the category
// are untouched; only the budget goes away.
func (h *BudgetsHandler) Delete(w http.ResponseWriter, r *http.Request, category string) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	if _, err := s.Dispatcher().DeleteBudget(category); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"category": category})
}
