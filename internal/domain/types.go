package domain

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Frequency is how often a recurring item repeats.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// NotificationKind maps to the severity a client renders for a notification.
type NotificationKind string

const (
	KindInfo    NotificationKind = "info"
	KindWarning NotificationKind = "warning"
	KindDanger  NotificationKind = "danger"
)

// Transaction is a single income or expense entry. The ID is immutable once
// assigned; Amount is always non-negative, with Type carrying the direction.
type Transaction struct {
	ID          string          `json:"id"`
	Date        civil.Date      `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
}

// Budget caps monthly spend for one category. At most one Budget per category
// per principal; setting a budget for an existing category overwrites it.
type Budget struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
}

// RecurringItem is a registered bill or income source. NextDueDate is a static
// target date read relative to "today"; it is never auto-advanced after it
// passes (advancing it on payment is an explicit user edit).
type RecurringItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Frequency   Frequency       `json:"frequency"`
	NextDueDate civil.Date      `json:"nextDueDate"`
	Active      bool            `json:"active"`
}

// Notification is a derived record emitted by the alert engine. The ID is
// deterministic (source entity + rule + period) so re-evaluation deduplicates
// against what a session has already seen.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
}

// BudgetPlan is the uploaded free-text budget plan document, one per
// principal. A zero value means no plan has been uploaded.
type BudgetPlan struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// IsZero reports whether no plan has been uploaded.
func (p BudgetPlan) IsZero() bool {
	return p.FileName == "" && p.Content == ""
}
