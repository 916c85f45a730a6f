package inmemory

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// Seed populates a principal with demo records for local development: a
// month of transactions, a handful of budgets and two recurring bills, one of
// which is due in two days so the alert path has something to chew on.
func (s *Store) Seed(ctx context.Context, principalID string, now time.Time) error {
	today := civil.DateOf(now)
	monthStart := civil.Date{Year: today.Year, Month: today.Month, Day: 1}

	seedTx := []struct {
		day         int
		description string
		amount      string
		txType      domain.TransactionType
		category    string
	}{
		{1, "Monthly Salary", "5000", domain.TypeIncome, "Salary"},
		{1, "Rent Payment", "1500", domain.TypeExpense, "Housing"},
		{2, "Grocery Shopping", "250.75", domain.TypeExpense, "Groceries"},
		{5, "Gasoline", "60", domain.TypeExpense, "Transportation"},
		{8, "Dinner with friends", "120.50", domain.TypeExpense, "Food"},
		{10, "Movie Tickets", "35", domain.TypeExpense, "Entertainment"},
		{12, "New Jacket", "150", domain.TypeExpense, "Apparel"},
		{15, "Pharmacy", "45.20", domain.TypeExpense, "Health"},
		{16, "Freelance Project", "750", domain.TypeIncome, "Other"},
		{18, "Weekly Groceries", "180.40", domain.TypeExpense, "Groceries"},
	}

	transactions := make([]domain.Transaction, 0, len(seedTx))
	for _, tx := range seedTx {
		amount, err := decimal.NewFromString(tx.amount)
		if err != nil {
			return fmt.Errorf("Seed: parse amount %q: %w", tx.amount, err)
		}
		date := monthStart.AddDays(tx.day - 1)
		if date.After(today) {
			date = today
		}
		transactions = append(transactions, domain.Transaction{
			ID:          uuid.New().String(),
			Date:        date,
			Description: tx.description,
			Amount:      amount,
			Type:        tx.txType,
			Category:    tx.category,
		})
	}
	if err := s.BulkImportTransactions(ctx, principalID, transactions); err != nil {
		return err
	}

	budgets := []domain.Budget{
		{Category: "Groceries", Limit: decimal.NewFromInt(600)},
		{Category: "Housing", Limit: decimal.NewFromInt(1500)},
		{Category: "Transportation", Limit: decimal.NewFromInt(200)},
		{Category: "Food", Limit: decimal.NewFromInt(300)},
		{Category: "Entertainment", Limit: decimal.NewFromInt(150)},
	}
	for _, b := range budgets {
		if err := s.UpsertBudget(ctx, principalID, b); err != nil {
			return err
		}
	}

	recurring := []domain.RecurringItem{
		{
			ID:          uuid.New().String(),
			Description: "Netflix Subscription",
			Amount:      decimal.NewFromInt(650),
			Type:        domain.TypeExpense,
			Category:    "Entertainment",
			Frequency:   domain.FrequencyMonthly,
			NextDueDate: today.AddDays(2),
			Active:      true,
		},
		{
			ID:          uuid.New().String(),
			Description: "Rent",
			Amount:      decimal.NewFromInt(15000),
			Type:        domain.TypeExpense,
			Category:    "Housing",
			Frequency:   domain.FrequencyMonthly,
			NextDueDate: today.AddDays(15),
			Active:      true,
		},
	}
	for _, r := range recurring {
		if err := s.CreateRecurring(ctx, principalID, r); err != nil {
			return err
		}
	}
	return nil
}
