package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// CreateRecurring implements store.RecordStore.
func (s *Store) CreateRecurring(ctx context.Context, principalID string, item domain.RecurringItem) error {
	if err := s.inserter(recurringTable).Put(ctx, recurringRow(principalID, item)); err != nil {
		return fmt.Errorf("CreateRecurring: inserting row: %w", err)
	}
	return nil
}

// UpdateRecurring implements store.RecordStore. Unknown ids match zero rows.
func (s *Store) UpdateRecurring(ctx context.Context, principalID string, item domain.RecurringItem) error {
	err := s.runDML(ctx, `
		UPDATE `+s.table(recurringTable)+`
		SET description = @description,
			amount = @amount,
			type = @type,
			category = @category,
			frequency = @frequency,
			next_due_date = @next_due_date,
			active = @active
		WHERE user_id = @user_id
		  AND recurring_id = @recurring_id
	`, []bigquery.QueryParameter{
		{Name: "description", Value: item.Description},
		{Name: "amount", Value: item.Amount.Rat()},
		{Name: "type", Value: string(item.Type)},
		{Name: "category", Value: item.Category},
		{Name: "frequency", Value: string(item.Frequency)},
		{Name: "next_due_date", Value: item.NextDueDate},
		{Name: "active", Value: item.Active},
		{Name: "user_id", Value: principalID},
		{Name: "recurring_id", Value: item.ID},
	})
	if err != nil {
		return fmt.Errorf("UpdateRecurring: %w", err)
	}
	return nil
}

// DeleteRecurring implements store.RecordStore (idempotent delete).
func (s *Store) DeleteRecurring(ctx context.Context, principalID, id string) error {
	err := s.runDML(ctx, `
		DELETE FROM `+s.table(recurringTable)+`
		WHERE user_id = @user_id
		  AND recurring_id = @recurring_id
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
		{Name: "recurring_id", Value: id},
	})
	if err != nil {
		return fmt.Errorf("DeleteRecurring: %w", err)
	}
	return nil
}

// queryRecurring fetches all of a principal's recurring items.
func (s *Store) queryRecurring(ctx context.Context, principalID string) ([]domain.RecurringItem, error) {
	q := s.client.Query(`
		SELECT user_id, recurring_id, description, amount, type, category, frequency, next_due_date, active
		FROM ` + s.table(recurringTable) + `
		WHERE user_id = @user_id
		ORDER BY next_due_date
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryRecurring: reading query: %w", err)
	}

	var out []domain.RecurringItem
	for {
		var row RecurringRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("queryRecurring: iterating: %w", err)
		}
		out = append(out, row.domain())
	}
	return out, nil
}
