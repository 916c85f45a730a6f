package bigquery

import (
	"math/big"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// numericScale is the decimal scale used when converting BigQuery NUMERIC
// values back into domain amounts.
const numericScale = 9

// TransactionRow maps one row of the transactions table.
type TransactionRow struct {
	UserID        string     `bigquery:"user_id"`        // REQUIRED
	TransactionID string     `bigquery:"transaction_id"` // REQUIRED
	Date          civil.Date `bigquery:"transaction_date"`
	Description   string     `bigquery:"description"`
	Amount        *big.Rat   `bigquery:"amount"` // NUMERIC, non-negative
	Type          string     `bigquery:"type"`   // income | expense
	Category      string     `bigquery:"category"`
}

// BudgetRow maps one row of the budgets table. The limit column is named
// limit_amount because LIMIT is reserved in GoogleSQL.
type BudgetRow struct {
	UserID   string   `bigquery:"user_id"`
	Category string   `bigquery:"category"`
	Limit    *big.Rat `bigquery:"limit_amount"` // NUMERIC, positive
}

// RecurringRow maps one row of the recurring_items table.
type RecurringRow struct {
	UserID      string     `bigquery:"user_id"`
	RecurringID string     `bigquery:"recurring_id"`
	Description string     `bigquery:"description"`
	Amount      *big.Rat   `bigquery:"amount"`
	Type        string     `bigquery:"type"`
	Category    string     `bigquery:"category"`
	Frequency   string     `bigquery:"frequency"`
	NextDueDate civil.Date `bigquery:"next_due_date"`
	Active      bool       `bigquery:"active"`
}

// PlanRow maps one row of the plans table. One plan per user.
type PlanRow struct {
	UserID   string `bigquery:"user_id"`
	FileName string `bigquery:"file_name"`
	Content  string `bigquery:"content"`
}

func transactionRow(userID string, t domain.Transaction) *TransactionRow {
	return &TransactionRow{
		UserID:        userID,
		TransactionID: t.ID,
		Date:          t.Date,
		Description:   t.Description,
		Amount:        t.Amount.Rat(),
		Type:          string(t.Type),
		Category:      t.Category,
	}
}

func (r *TransactionRow) domain() domain.Transaction {
	return domain.Transaction{
		ID:          r.TransactionID,
		Date:        r.Date,
		Description: r.Description,
		Amount:      ratToDecimal(r.Amount),
		Type:        domain.TransactionType(r.Type),
		Category:    r.Category,
	}
}

func recurringRow(userID string, item domain.RecurringItem) *RecurringRow {
	return &RecurringRow{
		UserID:      userID,
		RecurringID: item.ID,
		Description: item.Description,
		Amount:      item.Amount.Rat(),
		Type:        string(item.Type),
		Category:    item.Category,
		Frequency:   string(item.Frequency),
		NextDueDate: item.NextDueDate,
		Active:      item.Active,
	}
}

func (r *RecurringRow) domain() domain.RecurringItem {
	return domain.RecurringItem{
		ID:          r.RecurringID,
		Description: r.Description,
		Amount:      ratToDecimal(r.Amount),
		Type:        domain.TransactionType(r.Type),
		Category:    r.Category,
		Frequency:   domain.Frequency(r.Frequency),
		NextDueDate: r.NextDueDate,
		Active:      r.Active,
	}
}

func (r *BudgetRow) domain() domain.Budget {
	return domain.Budget{
		Category: r.Category,
		Limit:    ratToDecimal(r.Limit),
	}
}

func ratToDecimal(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, numericScale)
}
