package handlers

import (
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/aggregate"
	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
)

// DataHandler serves the aggregated fast-load payload and dashboard summary.
type DataHandler struct {
	sessions *session.Manager
	log      zerolog.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(sessions *session.Manager, log zerolog.Logger) *DataHandler {
	return &DataHandler{sessions: sessions, log: log}
}

// GetData handles GET /api/data: the whole session snapshot in one response.
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}
	snapshot := s.Snapshot()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions":  orEmptyTransactions(snapshot.Transactions),
		"budgets":       orEmptyBudgets(snapshot.Budgets),
		"recurring":     orEmptyRecurring(snapshot.Recurring),
		"notifications": orEmptyNotifications(snapshot.Notifications),
		"budgetPlan":    snapshot.Plan,
		"loading":       snapshot.Loading,
	})
}

// Refresh handles POST /api/refresh: wholesale re-fetch from the Record
// Store, the explicit drift-recovery path.
func (h *DataHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	if _, err := s.Refresh(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("Refresh failed")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to refresh from record store")
		return
	}
	h.GetData(w, r)
}

// budgetDetail is one budget's dashboard row: all-time spend drives the
// displayed figures while alerting runs off monthly spend elsewhere.
type budgetDetail struct {
	Category       string `json:"category"`
	Limit          string `json:"limit"`
	Spent          string `json:"spent"`
	SpentThisMonth string `json:"spentThisMonth"`
	Percentage     string `json:"percentage"`
	AverageDaily   string `json:"averageDailySpending"`
	Projected      string `json:"projectedSpend"`
}

// GetSummary handles GET /api/summary: headline totals, the expense
// breakdown and per-budget projections.
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}
	snapshot := s.Snapshot()

	now := time.Now()
	today := civil.DateOf(now)
	daysInMonth := aggregate.DaysInMonth(today.Year, today.Month)

	totals := aggregate.SummarizeTotals(snapshot.Transactions)
	byCategory := aggregate.ExpensesByCategory(snapshot.Transactions)

	details := make([]budgetDetail, 0, len(snapshot.Budgets))
	for _, b := range snapshot.Budgets {
		spent := aggregate.CategorySpendAllTime(snapshot.Transactions, b.Category)
		monthly := aggregate.CategorySpend(snapshot.Transactions, b.Category, today.Year, today.Month)
		avgDaily := aggregate.AverageDailySpend(spent, today.Day)
		details = append(details, budgetDetail{
			Category:       b.Category,
			Limit:          b.Limit.String(),
			Spent:          spent.String(),
			SpentThisMonth: monthly.String(),
			Percentage:     aggregate.BudgetPercentage(spent, b.Limit).StringFixed(1),
			AverageDaily:   avgDaily.StringFixed(2),
			Projected:      aggregate.ProjectedMonthEndSpend(avgDaily, daysInMonth).StringFixed(2),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalIncome":       totals.Income.String(),
		"totalExpenses":     totals.Expenses.String(),
		"balance":           totals.Balance.String(),
		"expenseByCategory": byCategory,
		"budgets":           details,
	})
}

func orEmptyTransactions(in []domain.Transaction) []domain.Transaction {
	if in == nil {
		return []domain.Transaction{}
	}
	return in
}

func orEmptyBudgets(in []domain.Budget) []domain.Budget {
	if in == nil {
		return []domain.Budget{}
	}
	return in
}

func orEmptyRecurring(in []domain.RecurringItem) []domain.RecurringItem {
	if in == nil {
		return []domain.RecurringItem{}
	}
	return in
}

func orEmptyNotifications(in []domain.Notification) []domain.Notification {
	if in == nil {
		return []domain.Notification{}
	}
	return in
}
