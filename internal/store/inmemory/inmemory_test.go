package inmemory

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

func tx(id string) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		Date:        civil.Date{Year: 2025, Month: time.July, Day: 10},
		Description: "test " + id,
		Amount:      decimal.NewFromInt(10),
		Type:        domain.TypeExpense,
		Category:    "Groceries",
	}
}

func TestStore_TransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.CreateTransaction(ctx, "u1", tx("t1")); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateTransaction(ctx, "u1", tx("t2")); err != nil {
		t.Fatal(err)
	}

	data, err := s.FetchAll(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(data.Transactions))
	}
	// Newest first.
	if data.Transactions[0].ID != "t2" {
		t.Errorf("first transaction = %s, want t2", data.Transactions[0].ID)
	}

	edited := tx("t1")
	edited.Description = "edited"
	if err := s.UpdateTransaction(ctx, "u1", edited); err != nil {
		t.Fatal(err)
	}
	data, _ = s.FetchAll(ctx, "u1")
	if data.Transactions[1].Description != "edited" {
		t.Errorf("update not applied: %+v", data.Transactions[1])
	}

	if err := s.DeleteTransaction(ctx, "u1", "t2"); err != nil {
		t.Fatal(err)
	}
	// Deleting an unknown id is not an error.
	if err := s.DeleteTransaction(ctx, "u1", "unknown"); err != nil {
		t.Fatal(err)
	}
	data, _ = s.FetchAll(ctx, "u1")
	if len(data.Transactions) != 1 || data.Transactions[0].ID != "t1" {
		t.Errorf("transactions after delete = %+v", data.Transactions)
	}
}

func TestStore_BulkImportPrepends(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.CreateTransaction(ctx, "u1", tx("existing")); err != nil {
		t.Fatal(err)
	}
	if err := s.BulkImportTransactions(ctx, "u1", []domain.Transaction{tx("i1"), tx("i2")}); err != nil {
		t.Fatal(err)
	}

	data, _ := s.FetchAll(ctx, "u1")
	if len(data.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(data.Transactions))
	}
	if data.Transactions[0].ID != "i1" || data.Transactions[2].ID != "existing" {
		t.Errorf("order = %+v", data.Transactions)
	}
}

func TestStore_BudgetUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.UpsertBudget(ctx, "u1", domain.Budget{Category: "Groceries", Limit: decimal.NewFromInt(600)}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertBudget(ctx, "u1", domain.Budget{Category: "Groceries", Limit: decimal.NewFromInt(700)}); err != nil {
		t.Fatal(err)
	}

	data, _ := s.FetchAll(ctx, "u1")
	if len(data.Budgets) != 1 {
		t.Fatalf("upsert must replace, got %d budgets", len(data.Budgets))
	}
	if !data.Budgets[0].Limit.Equal(decimal.NewFromInt(700)) {
		t.Errorf("limit = %s, want 700", data.Budgets[0].Limit)
	}

	if err := s.DeleteBudget(ctx, "u1", "Groceries"); err != nil {
		t.Fatal(err)
	}
	data, _ = s.FetchAll(ctx, "u1")
	if len(data.Budgets) != 0 {
		t.Errorf("budgets after delete = %+v", data.Budgets)
	}
}

func TestStore_RecurringLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	item := domain.RecurringItem{
		ID:          "r1",
		Description: "Rent",
		Amount:      decimal.NewFromInt(1500),
		Type:        domain.TypeExpense,
		Category:    "Housing",
		Frequency:   domain.FrequencyMonthly,
		NextDueDate: civil.Date{Year: 2025, Month: time.August, Day: 1},
		Active:      true,
	}
	if err := s.CreateRecurring(ctx, "u1", item); err != nil {
		t.Fatal(err)
	}

	item.Active = false
	if err := s.UpdateRecurring(ctx, "u1", item); err != nil {
		t.Fatal(err)
	}
	data, _ := s.FetchAll(ctx, "u1")
	if len(data.Recurring) != 1 || data.Recurring[0].Active {
		t.Errorf("recurring = %+v", data.Recurring)
	}

	if err := s.DeleteRecurring(ctx, "u1", "r1"); err != nil {
		t.Fatal(err)
	}
	data, _ = s.FetchAll(ctx, "u1")
	if len(data.Recurring) != 0 {
		t.Errorf("recurring after delete = %+v", data.Recurring)
	}
}

func TestStore_SavePlanReplaces(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.SavePlan(ctx, "u1", domain.BudgetPlan{FileName: "a.txt", Content: "first"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePlan(ctx, "u1", domain.BudgetPlan{FileName: "b.txt", Content: "second"}); err != nil {
		t.Fatal(err)
	}

	data, _ := s.FetchAll(ctx, "u1")
	if data.Plan.FileName != "b.txt" || data.Plan.Content != "second" {
		t.Errorf("plan = %+v", data.Plan)
	}
}

func TestStore_PrincipalsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.CreateTransaction(ctx, "u1", tx("t1")); err != nil {
		t.Fatal(err)
	}

	data, err := s.FetchAll(ctx, "u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Transactions) != 0 {
		t.Errorf("u2 sees u1's transactions: %+v", data.Transactions)
	}
}

func TestStore_FetchAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.CreateTransaction(ctx, "u1", tx("t1")); err != nil {
		t.Fatal(err)
	}

	data, _ := s.FetchAll(ctx, "u1")
	data.Transactions[0].Description = "mutated by caller"

	again, _ := s.FetchAll(ctx, "u1")
	if again.Transactions[0].Description != "test t1" {
		t.Error("caller mutation leaked into store memory")
	}
}

func TestStore_SeedPopulatesDemoData(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	now := time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)
	if err := s.Seed(ctx, "demo", now); err != nil {
		t.Fatal(err)
	}

	data, err := s.FetchAll(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Transactions) == 0 || len(data.Budgets) == 0 || len(data.Recurring) == 0 {
		t.Fatalf("seed left gaps: %d transactions, %d budgets, %d recurring",
			len(data.Transactions), len(data.Budgets), len(data.Recurring))
	}

	// At least one seeded bill lands inside the reminder window.
	due := false
	for _, r := range data.Recurring {
		days := r.NextDueDate.DaysSince(civil.DateOf(now))
		if r.Active && days >= 0 && days <= 3 {
			due = true
		}
	}
	if !due {
		t.Error("expected a seeded bill due within 3 days")
	}
}
