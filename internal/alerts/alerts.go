// Package alerts derives candidate notifications from a snapshot of
// transactions, budgets and recurring items. The computation is stateless;
// the state store merges candidates into the persisted notification list and
// handles deduplication by id.
package alerts

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/aggregate"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// Rule thresholds. A bill reminder fires inside the closed [0, billDueWindow]
// day window; budget rules fire at >= the percentage thresholds, with the
// exceeded rule taking precedence over the warning for a given category+month.
const (
	billDueWindowDays = 3
)

var (
	warningThreshold  = decimal.NewFromInt(80)
	exceededThreshold = decimal.NewFromInt(100)
)

// monthKey keys budget notifications per category per month. It includes the
// year so that ids do not collide across years of usage.
func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// BillDueID is the deterministic id for a bill-due reminder.
func BillDueID(recurringID string, due civil.Date) string {
	return fmt.Sprintf("bill_%s_%s", recurringID, due.String())
}

// BudgetExceededID is the deterministic id for a budget-exceeded alert.
func BudgetExceededID(category string, year int, month time.Month) string {
	return fmt.Sprintf("budget_err_%s_%s", category, monthKey(year, month))
}

// BudgetWarningID is the deterministic id for a budget-warning alert.
func BudgetWarningID(category string, year int, month time.Month) string {
	return fmt.Sprintf("budget_warn_%s_%s", category, monthKey(year, month))
}

// Evaluate produces the candidate notification set for the given snapshot at
// the given instant. Rules are evaluated independently per entity; the caller
// discards candidates whose id already exists in state.
func Evaluate(now time.Time, snapshot domain.Snapshot) []domain.Notification {
	today := civil.DateOf(now)

	var candidates []domain.Notification
	candidates = append(candidates, billReminders(now, today, snapshot.Recurring)...)
	candidates = append(candidates, budgetAlerts(now, today, snapshot)...)
	return candidates
}

// billReminders emits an info notification for every active recurring item
// due within the closed [0, 3] day window. Inactive items and items outside
// the window emit nothing; there is no separate overdue rule.
func billReminders(now time.Time, today civil.Date, recurring []domain.RecurringItem) []domain.Notification {
	var out []domain.Notification
	for _, item := range recurring {
		if !item.Active {
			continue
		}
		days := aggregate.DaysUntilDue(today, item.NextDueDate)
		if days < 0 || days > billDueWindowDays {
			continue
		}
		out = append(out, domain.Notification{
			ID:        BillDueID(item.ID, item.NextDueDate),
			Kind:      domain.KindInfo,
			Title:     "Upcoming Bill",
			Message:   billMessage(item, days),
			CreatedAt: now,
		})
	}
	return out
}

func billMessage(item domain.RecurringItem, days int) string {
	switch days {
	case 0:
		return fmt.Sprintf("%s (%s) is due today.", item.Description, item.Amount.StringFixed(2))
	case 1:
		return fmt.Sprintf("%s (%s) is due in 1 day.", item.Description, item.Amount.StringFixed(2))
	default:
		return fmt.Sprintf("%s (%s) is due in %d days.", item.Description, item.Amount.StringFixed(2), days)
	}
}

// budgetAlerts checks every budget against current-month spend. The two
// thresholds are mutually exclusive per category per month: once spend crosses
// 100% only the exceeded alert is emitted.
func budgetAlerts(now time.Time, today civil.Date, snapshot domain.Snapshot) []domain.Notification {
	var out []domain.Notification
	for _, budget := range snapshot.Budgets {
		spent := aggregate.CategorySpend(snapshot.Transactions, budget.Category, today.Year, today.Month)
		pct := aggregate.BudgetPercentage(spent, budget.Limit)

		switch {
		case pct.GreaterThanOrEqual(exceededThreshold):
			over := spent.Sub(budget.Limit)
			out = append(out, domain.Notification{
				ID:        BudgetExceededID(budget.Category, today.Year, today.Month),
				Kind:      domain.KindDanger,
				Title:     "Budget Exceeded",
				Message:   fmt.Sprintf("You are over your %s budget by %s this month.", budget.Category, over.StringFixed(2)),
				CreatedAt: now,
			})
		case pct.GreaterThanOrEqual(warningThreshold):
			out = append(out, domain.Notification{
				ID:        BudgetWarningID(budget.Category, today.Year, today.Month),
				Kind:      domain.KindWarning,
				Title:     "Budget Warning",
				Message:   fmt.Sprintf("You have used %s%% of your %s budget this month.", pct.StringFixed(1), budget.Category),
				CreatedAt: now,
			})
		}
	}
	return out
}
