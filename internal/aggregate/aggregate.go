// Package aggregate computes derived figures from raw transaction, budget and
// recurring records. Everything here is pure and deterministic: callers pass
// "today" explicitly, nothing reads the clock or does I/O.
package aggregate

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// CategorySpend sums expense amounts for the category whose date falls within
// the given calendar month. Month boundaries are calendar year/month equality,
// not a rolling 30-day window; income and other categories contribute nothing.
// Both the dashboard and the alert engine must go through this function so
// they agree on what "this month" means.
func CategorySpend(transactions []domain.Transaction, category string, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type != domain.TypeExpense || t.Category != category {
			continue
		}
		if t.Date.Year == year && t.Date.Month == month {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// CategorySpendAllTime sums expense amounts for the category across all
// months. The per-budget display uses this figure while alert thresholds use
// the monthly CategorySpend; the asymmetry is inherited behavior and the two
// must stay separate operations.
func CategorySpendAllTime(transactions []domain.Transaction, category string) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type == domain.TypeExpense && t.Category == category {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// AverageDailySpend divides total spend by the 1-based day of month of today.
// A day <= 0 cannot occur for a valid date but is defended with a zero return.
func AverageDailySpend(totalSpent decimal.Decimal, dayOfMonth int) decimal.Decimal {
	if dayOfMonth <= 0 {
		return decimal.Zero
	}
	return totalSpent.Div(decimal.NewFromInt(int64(dayOfMonth)))
}

// ProjectedMonthEndSpend extrapolates the average daily spend over the whole
// month.
func ProjectedMonthEndSpend(avgDaily decimal.Decimal, daysInMonth int) decimal.Decimal {
	return avgDaily.Mul(decimal.NewFromInt(int64(daysInMonth)))
}

// DaysInMonth returns the number of calendar days (28-31) in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntilDue returns the signed whole-day difference between today and the
// due date. Both are calendar dates, so the subtraction is already normalized
// to midnight; negative means overdue.
func DaysUntilDue(today, due civil.Date) int {
	return due.DaysSince(today)
}

// BudgetPercentage returns spent/limit expressed as a percentage. The Budget
// invariant guarantees limit > 0; callers must not pass limit <= 0.
func BudgetPercentage(spent, limit decimal.Decimal) decimal.Decimal {
	return spent.Div(limit).Mul(decimal.NewFromInt(100))
}

// Totals holds the dashboard headline figures.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

// SummarizeTotals computes all-time income, expenses and balance.
func SummarizeTotals(transactions []domain.Transaction) Totals {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transactions {
		if t.Type == domain.TypeIncome {
			income = income.Add(t.Amount)
		} else {
			expenses = expenses.Add(t.Amount)
		}
	}
	return Totals{Income: income, Expenses: expenses, Balance: income.Sub(expenses)}
}

// CategoryTotal is one slice of the expense-by-category breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// ExpensesByCategory groups all-time expense amounts per category, sorted by
// category name for stable output.
func ExpensesByCategory(transactions []domain.Transaction) []CategoryTotal {
	byCategory := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != domain.TypeExpense {
			continue
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		out = append(out, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
