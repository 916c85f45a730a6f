package state

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/alerts"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

var storeClock = func() time.Time {
	return time.Date(2025, time.July, 15, 9, 0, 0, 0, time.UTC)
}

func newTestStore() *Store {
	return NewStoreWithClock(zerolog.Nop(), storeClock)
}

func TestStore_StartsLoading(t *testing.T) {
	s := newTestStore()
	if !s.Snapshot().Loading {
		t.Error("fresh store must be in the loading state")
	}
}

func TestStore_AlertsEvaluatedOnInitialData(t *testing.T) {
	s := newTestStore()

	snapshot := s.Apply(SetInitialData{
		Transactions: []domain.Transaction{{
			ID:       "t1",
			Date:     civil.Date{Year: 2025, Month: time.July, Day: 10},
			Amount:   decimal.NewFromInt(650),
			Type:     domain.TypeExpense,
			Category: "Groceries",
		}},
		Budgets: []domain.Budget{{Category: "Groceries", Limit: decimal.NewFromInt(600)}},
	})

	if snapshot.Loading {
		t.Fatal("Loading should be false after initial data")
	}
	wantID := alerts.BudgetExceededID("Groceries", 2025, time.July)
	if !snapshot.HasNotification(wantID) {
		t.Errorf("expected %s after load, notifications: %+v", wantID, snapshot.Notifications)
	}
}

func TestStore_NoAlertsWhileLoading(t *testing.T) {
	s := newTestStore()

	// Mutations before the load completes reduce but do not derive alerts.
	snapshot := s.Apply(SetBudget{Budget: domain.Budget{Category: "Groceries", Limit: decimal.NewFromInt(1)}})
	snapshot = s.Apply(AddTransaction{Transaction: domain.Transaction{
		ID:       "t1",
		Date:     civil.Date{Year: 2025, Month: time.July, Day: 10},
		Amount:   decimal.NewFromInt(100),
		Type:     domain.TypeExpense,
		Category: "Groceries",
	}})

	if len(snapshot.Notifications) != 0 {
		t.Errorf("no notifications expected during load, got %+v", snapshot.Notifications)
	}
}

func TestStore_AlertTriggeredByMutation(t *testing.T) {
	s := newTestStore()
	s.Apply(SetInitialData{
		Budgets: []domain.Budget{{Category: "Groceries", Limit: decimal.NewFromInt(600)}},
	})

	snapshot := s.Apply(AddTransaction{Transaction: domain.Transaction{
		ID:       "t1",
		Date:     civil.Date{Year: 2025, Month: time.July, Day: 12},
		Amount:   decimal.NewFromInt(500),
		Type:     domain.TypeExpense,
		Category: "Groceries",
	}})

	wantID := alerts.BudgetWarningID("Groceries", 2025, time.July)
	if !snapshot.HasNotification(wantID) {
		t.Errorf("expected %s, notifications: %+v", wantID, snapshot.Notifications)
	}
}

func TestStore_ReEvaluationPreservesReadFlag(t *testing.T) {
	s := newTestStore()
	s.Apply(SetInitialData{
		Budgets: []domain.Budget{{Category: "Groceries", Limit: decimal.NewFromInt(600)}},
	})
	s.Apply(AddTransaction{Transaction: domain.Transaction{
		ID:       "t1",
		Date:     civil.Date{Year: 2025, Month: time.July, Day: 12},
		Amount:   decimal.NewFromInt(500),
		Type:     domain.TypeExpense,
		Category: "Groceries",
	}})
	s.Apply(MarkNotificationsRead{})

	// Another mutation in the same category re-derives the same warning id.
	snapshot := s.Apply(AddTransaction{Transaction: domain.Transaction{
		ID:       "t2",
		Date:     civil.Date{Year: 2025, Month: time.July, Day: 13},
		Amount:   decimal.NewFromInt(1),
		Type:     domain.TypeExpense,
		Category: "Groceries",
	}})

	wantID := alerts.BudgetWarningID("Groceries", 2025, time.July)
	for _, n := range snapshot.Notifications {
		if n.ID == wantID && !n.Read {
			t.Error("re-derived alert reset the read flag")
		}
	}
}

func TestStore_PlanIntentDoesNotTriggerAlerts(t *testing.T) {
	s := newTestStore()
	s.Apply(SetInitialData{
		Transactions: []domain.Transaction{{
			ID:       "t1",
			Date:     civil.Date{Year: 2025, Month: time.July, Day: 10},
			Amount:   decimal.NewFromInt(650),
			Type:     domain.TypeExpense,
			Category: "Groceries",
		}},
	})

	// No budget yet, so the load derived nothing. Uploading a plan after
	// adding a budget-free snapshot must not run the engine either.
	snapshot := s.Apply(UploadPlan{Plan: domain.BudgetPlan{FileName: "p.txt", Content: "x"}})
	if len(snapshot.Notifications) != 0 {
		t.Errorf("plan upload derived notifications: %+v", snapshot.Notifications)
	}
}
