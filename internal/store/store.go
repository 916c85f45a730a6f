// Package store defines the durable Record Store contract the session core
// consumes. Implementations are scoped by principal id: every call touches
// only the given principal's records.
package store

import (
	"context"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// InitialData is the aggregated fast-load payload for one principal.
type InitialData struct {
	Transactions []domain.Transaction
	Budgets      []domain.Budget
	Recurring    []domain.RecurringItem
	Plan         domain.BudgetPlan
}

// RecordStore is the minimal CRUD surface the core requires. Deletes of
// unknown ids are not errors (idempotent delete); budget writes have upsert
// semantics.
type RecordStore interface {
	FetchAll(ctx context.Context, principalID string) (InitialData, error)

	CreateTransaction(ctx context.Context, principalID string, t domain.Transaction) error
	UpdateTransaction(ctx context.Context, principalID string, t domain.Transaction) error
	DeleteTransaction(ctx context.Context, principalID, id string) error
	BulkImportTransactions(ctx context.Context, principalID string, transactions []domain.Transaction) error

	UpsertBudget(ctx context.Context, principalID string, b domain.Budget) error
	DeleteBudget(ctx context.Context, principalID, category string) error

	CreateRecurring(ctx context.Context, principalID string, item domain.RecurringItem) error
	UpdateRecurring(ctx context.Context, principalID string, item domain.RecurringItem) error
	DeleteRecurring(ctx context.Context, principalID, id string) error

	SavePlan(ctx context.Context, principalID string, plan domain.BudgetPlan) error
}
