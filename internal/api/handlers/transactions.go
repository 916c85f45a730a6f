package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/csvio"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
)

// TransactionsHandler handles transaction CRUD plus CSV import/export.
type TransactionsHandler struct {
	sessions *session.Manager
	log      zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(sessions *session.Manager, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{sessions: sessions, log: log}
}

func validTransaction(t domain.Transaction) bool {
	if t.Description == "" || !t.Date.IsValid() || t.Amount.IsNegative() {
		return false
	}
	return t.Type == domain.TypeIncome || t.Type == domain.TypeExpense
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	var t domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validTransaction(t) {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction")
		return
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	if _, err := s.Dispatcher().AddTransaction(t); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, t)
}

// Update handles PUT /api/transactions/:id.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	var t domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	t.ID = id
	if !validTransaction(t) {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid transaction")
		return
	}

	if _, err := s.Dispatcher().EditTransaction(t); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /api/transactions/:id. Deleting an unknown id is a
// no-op, not an error.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	if _, err := s.Dispatcher().DeleteTransaction(id); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"id": id})
}

// Import handles POST /api/transactions/import. A text/csv body goes through
// the CSV transcoder (malformed rows silently dropped); anything else is
// decoded as a JSON array of transactions.
func (h *TransactionsHandler) Import(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	var transactions []domain.Transaction
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/csv") {
		parsed, err := csvio.Import(r.Body)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid CSV body")
			return
		}
		transactions = parsed
	} else {
		if err := json.NewDecoder(r.Body).Decode(&transactions); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		valid := transactions[:0]
		for _, t := range transactions {
			if !validTransaction(t) {
				continue
			}
			if t.ID == "" {
				t.ID = uuid.New().String()
			}
			valid = append(valid, t)
		}
		transactions = valid
	}

	// Only a nonzero successfully-parsed count triggers a state update.
	if len(transactions) == 0 {
		middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{"imported": 0})
		return
	}

	if _, err := s.Dispatcher().ImportTransactions(transactions); err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"imported":     len(transactions),
		"transactions": transactions,
	})
}

// Export handles GET /api/transactions/export, streaming the CSV shape.
func (h *TransactionsHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := csvio.Export(w, s.Snapshot().Transactions); err != nil {
		h.log.Error().Err(err).Msg("CSV export failed")
	}
}
