package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
)

// RecurringHandler handles recurring item CRUD.
type RecurringHandler struct {
	sessions *session.Manager
	log      zerolog.Logger
}

// NewRecurringHandler creates a new recurring items handler.
func NewRecurringHandler(sessions *session.Manager, log zerolog.Logger) *RecurringHandler {
	return &RecurringHandler{sessions: sessions, log: log}
}

func validRecurring(item domain.RecurringItem) bool {
	if item.Description == "" || !item.NextDueDate.IsValid() {
		return false
	}
	switch item.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyYearly:
	default:
		return false
	}
	switch item.Type {
	case domain.TypeIncome, domain.TypeExpense:
	default:
		return false
	}
	return true
}

// Create handles POST /api/recurring.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	var item domain.RecurringItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validRecurring(item) {
		middleware.WriteError(w, http.StatusBadRequest, "Recurring item requires a description, due date, frequency and type")
		return
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if _, err := s.Dispatcher().AddRecurring(item); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/recurring/:id.
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	var item domain.RecurringItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	item.ID = id
	if !validRecurring(item) {
		middleware.WriteError(w, http.StatusBadRequest, "Recurring item requires a description, due date, frequency and type")
		return
	}

	if _, err := s.Dispatcher().EditRecurring(item); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/recurring/:id. Deleting an unknown id succeeds.
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	if _, err := s.Dispatcher().DeleteRecurring(id); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}
