package alerts

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

var evalTime = time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC)

func expense(id, category, amount string, date civil.Date) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		Date:        date,
		Description: "test " + id,
		Amount:      decimal.RequireFromString(amount),
		Type:        domain.TypeExpense,
		Category:    category,
	}
}

func bill(id, description string, due civil.Date, active bool) domain.RecurringItem {
	return domain.RecurringItem{
		ID:          id,
		Description: description,
		Amount:      decimal.RequireFromString("650"),
		Type:        domain.TypeExpense,
		Category:    "Utilities",
		Frequency:   domain.FrequencyMonthly,
		NextDueDate: due,
		Active:      active,
	}
}

func day(d int) civil.Date {
	return civil.Date{Year: 2025, Month: time.July, Day: d}
}

func TestEvaluate_BillReminders(t *testing.T) {
	tests := []struct {
		name      string
		item      domain.RecurringItem
		wantAlert bool
		wantInMsg string
	}{
		{"due today", bill("r1", "Netflix Subscription", day(15), true), true, "is due today."},
		{"due in one day", bill("r2", "Internet", day(16), true), true, "is due in 1 day."},
		{"due at window edge", bill("r3", "Rent", day(18), true), true, "is due in 3 days."},
		{"past window edge", bill("r4", "Insurance", day(19), true), false, ""},
		{"overdue emits nothing", bill("r5", "Gym", day(14), true), false, ""},
		{"inactive emits nothing", bill("r6", "Netflix Subscription", day(15), false), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := domain.Snapshot{Recurring: []domain.RecurringItem{tt.item}}
			got := Evaluate(evalTime, snapshot)

			if !tt.wantAlert {
				if len(got) != 0 {
					t.Fatalf("expected no notifications, got %v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 notification, got %d", len(got))
			}
			n := got[0]
			if n.Kind != domain.KindInfo {
				t.Errorf("Kind = %s, want info", n.Kind)
			}
			if n.Title != "Upcoming Bill" {
				t.Errorf("Title = %q", n.Title)
			}
			wantID := BillDueID(tt.item.ID, tt.item.NextDueDate)
			if n.ID != wantID {
				t.Errorf("ID = %q, want %q", n.ID, wantID)
			}
			if !strings.Contains(n.Message, tt.wantInMsg) {
				t.Errorf("Message = %q, want substring %q", n.Message, tt.wantInMsg)
			}
			if n.Read {
				t.Error("new notification must start unread")
			}
		})
	}
}

func TestEvaluate_BudgetThresholds(t *testing.T) {
	budget := domain.Budget{Category: "Groceries", Limit: decimal.RequireFromString("600")}

	tests := []struct {
		name     string
		spent    string
		wantKind domain.NotificationKind
		wantID   string
	}{
		{"below warning threshold", "479.99", "", ""},
		{"just under warning", "479.999", "", ""},
		{"at warning threshold", "480", domain.KindWarning, "budget_warn_Groceries_2025-07"},
		{"between thresholds", "550", domain.KindWarning, "budget_warn_Groceries_2025-07"},
		{"at limit", "600", domain.KindDanger, "budget_err_Groceries_2025-07"},
		{"over limit", "650", domain.KindDanger, "budget_err_Groceries_2025-07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := domain.Snapshot{
				Transactions: []domain.Transaction{expense("t1", "Groceries", tt.spent, day(10))},
				Budgets:      []domain.Budget{budget},
			}
			got := Evaluate(evalTime, snapshot)

			if tt.wantKind == "" {
				if len(got) != 0 {
					t.Fatalf("expected no notifications, got %v", got)
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("expected exactly 1 notification, got %d", len(got))
			}
			if got[0].Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", got[0].Kind, tt.wantKind)
			}
			if got[0].ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got[0].ID, tt.wantID)
			}
		})
	}
}

func TestEvaluate_ExceededSuppressesWarning(t *testing.T) {
	snapshot := domain.Snapshot{
		Transactions: []domain.Transaction{expense("t1", "Groceries", "650", day(10))},
		Budgets:      []domain.Budget{{Category: "Groceries", Limit: decimal.RequireFromString("600")}},
	}

	got := Evaluate(evalTime, snapshot)
	if len(got) != 1 {
		t.Fatalf("expected single exceeded alert, got %d notifications", len(got))
	}
	if got[0].Kind != domain.KindDanger {
		t.Errorf("Kind = %s, want danger", got[0].Kind)
	}
	want := "You are over your Groceries budget by 50.00 this month."
	if got[0].Message != want {
		t.Errorf("Message = %q, want %q", got[0].Message, want)
	}
}

func TestEvaluate_WarningMessagePercentage(t *testing.T) {
	snapshot := domain.Snapshot{
		Transactions: []domain.Transaction{expense("t1", "Groceries", "510", day(10))},
		Budgets:      []domain.Budget{{Category: "Groceries", Limit: decimal.RequireFromString("600")}},
	}

	got := Evaluate(evalTime, snapshot)
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	want := "You have used 85.0% of your Groceries budget this month."
	if got[0].Message != want {
		t.Errorf("Message = %q, want %q", got[0].Message, want)
	}
}

func TestEvaluate_MonthlyWindowIgnoresOtherMonths(t *testing.T) {
	// 500 spent last month plus 200 this month stays under the 80% line even
	// though the all-time total crosses it.
	snapshot := domain.Snapshot{
		Transactions: []domain.Transaction{
			expense("t1", "Groceries", "500", civil.Date{Year: 2025, Month: time.June, Day: 20}),
			expense("t2", "Groceries", "200", day(10)),
		},
		Budgets: []domain.Budget{{Category: "Groceries", Limit: decimal.RequireFromString("600")}},
	}

	if got := Evaluate(evalTime, snapshot); len(got) != 0 {
		t.Fatalf("expected no notifications, got %v", got)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	snapshot := domain.Snapshot{
		Transactions: []domain.Transaction{expense("t1", "Groceries", "650", day(10))},
		Budgets:      []domain.Budget{{Category: "Groceries", Limit: decimal.RequireFromString("600")}},
		Recurring:    []domain.RecurringItem{bill("r1", "Netflix Subscription", day(17), true)},
	}

	first := Evaluate(evalTime, snapshot)
	second := Evaluate(evalTime, snapshot)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 notifications per run, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("run ids diverged: %q vs %q", first[i].ID, second[i].ID)
		}
	}
}

func TestIDHelpers(t *testing.T) {
	due := civil.Date{Year: 2025, Month: time.July, Day: 17}
	if got := BillDueID("rec-1", due); got != "bill_rec-1_2025-07-17" {
		t.Errorf("BillDueID() = %q", got)
	}
	if got := BudgetExceededID("Groceries", 2025, time.July); got != "budget_err_Groceries_2025-07" {
		t.Errorf("BudgetExceededID() = %q", got)
	}
	if got := BudgetWarningID("Groceries", 2025, time.July); got != "budget_warn_Groceries_2025-07" {
		t.Errorf("BudgetWarningID() = %q", got)
	}
}
