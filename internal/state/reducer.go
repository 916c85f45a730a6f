package state

import "github.com/budgetbuddy/budgetbuddy/internal/domain"

// Reduce applies one intent to a snapshot and returns the resulting snapshot.
// It is pure: each intent transforms exactly the relevant slice, unrelated
// slices are carried over unchanged.
func Reduce(s domain.Snapshot, intent Intent) domain.Snapshot {
	switch in := intent.(type) {
	case SetInitialData:
		s.Transactions = in.Transactions
		s.Budgets = in.Budgets
		s.Recurring = in.Recurring
		s.Plan = in.Plan
		s.Loading = false
		return s

	case AddTransaction:
		transactions := make([]domain.Transaction, 0, len(s.Transactions)+1)
		transactions = append(transactions, in.Transaction)
		transactions = append(transactions, s.Transactions...)
		s.Transactions = transactions
		return s

	case EditTransaction:
		s.Transactions = replaceTransaction(s.Transactions, in.Transaction)
		return s

	case DeleteTransaction:
		s.Transactions = filterTransactions(s.Transactions, in.ID)
		return s

	case ImportTransactions:
		transactions := make([]domain.Transaction, 0, len(s.Transactions)+len(in.Transactions))
		transactions = append(transactions, in.Transactions...)
		transactions = append(transactions, s.Transactions...)
		s.Transactions = transactions
		return s

	case SetBudget:
		s.Budgets = upsertBudget(s.Budgets, in.Budget)
		return s

	case DeleteBudget:
		budgets := make([]domain.Budget, 0, len(s.Budgets))
		for _, b := range s.Budgets {
			if b.Category != in.Category {
				budgets = append(budgets, b)
			}
		}
		s.Budgets = budgets
		return s

	case AddRecurring:
		recurring := make([]domain.RecurringItem, 0, len(s.Recurring)+1)
		recurring = append(recurring, s.Recurring...)
		recurring = append(recurring, in.Item)
		s.Recurring = recurring
		return s

	case EditRecurring:
		s.Recurring = replaceRecurring(s.Recurring, in.Item)
		return s

	case DeleteRecurring:
		recurring := make([]domain.RecurringItem, 0, len(s.Recurring))
		for _, r := range s.Recurring {
			if r.ID != in.ID {
				recurring = append(recurring, r)
			}
		}
		s.Recurring = recurring
		return s

	case AddNotification:
		if s.HasNotification(in.Notification.ID) {
			return s
		}
		notifications := make([]domain.Notification, 0, len(s.Notifications)+1)
		notifications = append(notifications, s.Notifications...)
		notifications = append(notifications, in.Notification)
		s.Notifications = notifications
		return s

	case MarkNotificationsRead:
		notifications := make([]domain.Notification, len(s.Notifications))
		for i, n := range s.Notifications {
			n.Read = true
			notifications[i] = n
		}
		s.Notifications = notifications
		return s

	case UploadPlan:
		s.Plan = in.Plan
		return s

	case SetLoading:
		s.Loading = in.Loading
		return s
	}

	// Intent is a closed set; an unknown type means a missing case above.
	return s
}

func replaceTransaction(transactions []domain.Transaction, t domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(transactions))
	copy(out, transactions)
	for i := range out {
		if out[i].ID == t.ID {
			out[i] = t
			return out
		}
	}
	return transactions
}

func filterTransactions(transactions []domain.Transaction, id string) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func upsertBudget(budgets []domain.Budget, b domain.Budget) []domain.Budget {
	out := make([]domain.Budget, len(budgets))
	copy(out, budgets)
	for i := range out {
		if out[i].Category == b.Category {
			out[i] = b
			return out
		}
	}
	return append(out, b)
}

func replaceRecurring(recurring []domain.RecurringItem, item domain.RecurringItem) []domain.RecurringItem {
	out := make([]domain.RecurringItem, len(recurring))
	copy(out, recurring)
	for i := range out {
		if out[i].ID == item.ID {
			out[i] = item
			return out
		}
	}
	return recurring
}
