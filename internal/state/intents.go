// Package state holds the canonical in-memory snapshot for an active session.
// All mutation flows through a closed set of intents applied by a pure
// reducer; the Store wrapper serializes applications and re-runs the alert
// engine whenever transactions, budgets or recurring items change.
package state

import "github.com/budgetbuddy/budgetbuddy/internal/domain"

// Intent is one element of the closed set of state transitions. The marker
// method keeps the set closed to this package's declarations so the reducer
// switch stays exhaustive.
type Intent interface {
	isIntent()
}

// SetInitialData replaces the record slices wholesale with a fetched snapshot
// and completes the load (Loading becomes false).
type SetInitialData struct {
	Transactions []domain.Transaction
	Budgets      []domain.Budget
	Recurring    []domain.RecurringItem
	Plan         domain.BudgetPlan
}

// AddTransaction prepends a transaction, newest first.
type AddTransaction struct {
	Transaction domain.Transaction
}

// EditTransaction replaces the transaction with a matching id in place,
// preserving its position. Unknown ids are a silent no-op.
type EditTransaction struct {
	Transaction domain.Transaction
}

// DeleteTransaction removes the transaction with the given id. Unknown ids
// are a silent no-op.
type DeleteTransaction struct {
	ID string
}

// ImportTransactions prepends a batch of transactions, newest first.
type ImportTransactions struct {
	Transactions []domain.Transaction
}

// SetBudget upserts a budget by category.
type SetBudget struct {
	Budget domain.Budget
}

// DeleteBudget removes the budget for the given category.
type DeleteBudget struct {
	Category string
}

// AddRecurring appends a recurring item.
type AddRecurring struct {
	Item domain.RecurringItem
}

// EditRecurring replaces the recurring item with a matching id in place.
type EditRecurring struct {
	Item domain.RecurringItem
}

// DeleteRecurring removes the recurring item with the given id.
type DeleteRecurring struct {
	ID string
}

// AddNotification appends a notification unless one with the same id already
// exists; existing entries keep their read status untouched.
type AddNotification struct {
	Notification domain.Notification
}

// MarkNotificationsRead flips every notification to read.
type MarkNotificationsRead struct{}

// UploadPlan replaces the budget plan document.
type UploadPlan struct {
	Plan domain.BudgetPlan
}

// SetLoading sets the loading flag, used on the initial-load failure path.
type SetLoading struct {
	Loading bool
}

func (SetInitialData) isIntent()        {}
func (AddTransaction) isIntent()        {}
func (EditTransaction) isIntent()       {}
func (DeleteTransaction) isIntent()     {}
func (ImportTransactions) isIntent()    {}
func (SetBudget) isIntent()             {}
func (DeleteBudget) isIntent()          {}
func (AddRecurring) isIntent()          {}
func (EditRecurring) isIntent()         {}
func (DeleteRecurring) isIntent()       {}
func (AddNotification) isIntent()       {}
func (MarkNotificationsRead) isIntent() {}
func (UploadPlan) isIntent()            {}
func (SetLoading) isIntent()            {}

// MutatesRecords reports whether the intent changes transactions, budgets or
// recurring items, which is what gates alert re-evaluation. Notification and
// plan intents never re-trigger the engine.
func MutatesRecords(intent Intent) bool {
	switch intent.(type) {
	case SetInitialData,
		AddTransaction, EditTransaction, DeleteTransaction, ImportTransactions,
		SetBudget, DeleteBudget,
		AddRecurring, EditRecurring, DeleteRecurring:
		return true
	default:
		return false
	}
}
