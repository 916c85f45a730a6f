package domain

// Snapshot is the session-local view of a principal's records plus the
// derived notification list. It is treated as immutable: the reducer returns
// a new Snapshot, sharing unchanged slices with the previous one.
type Snapshot struct {
	Transactions  []Transaction
	Budgets       []Budget
	Recurring     []RecurringItem
	Notifications []Notification
	Plan          BudgetPlan
	Loading       bool
}

// FindTransaction returns the transaction with the given id, or false.
func (s Snapshot) FindTransaction(id string) (Transaction, bool) {
	for _, t := range s.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// FindBudget returns the budget for the given category, or false.
func (s Snapshot) FindBudget(category string) (Budget, bool) {
	for _, b := range s.Budgets {
		if b.Category == category {
			return b, true
		}
	}
	return Budget{}, false
}

// FindRecurring returns the recurring item with the given id, or false.
func (s Snapshot) FindRecurring(id string) (RecurringItem, bool) {
	for _, r := range s.Recurring {
		if r.ID == id {
			return r, true
		}
	}
	return RecurringItem{}, false
}

// HasNotification reports whether a notification with the given id exists.
func (s Snapshot) HasNotification(id string) bool {
	for _, n := range s.Notifications {
		if n.ID == id {
			return true
		}
	}
	return false
}
