package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// UpsertBudget implements store.RecordStore: one budget per category per
// principal, a second write for the same category overwrites the limit.
func (s *Store) UpsertBudget(ctx context.Context, principalID string, b domain.Budget) error {
	err := s.runDML(ctx, `
		MERGE `+s.table(budgetsTable)+` t
		USING (SELECT @user_id AS user_id, @category AS category, @limit_amount AS limit_amount) src
		ON t.user_id = src.user_id AND t.category = src.category
		WHEN MATCHED THEN
			UPDATE SET limit_amount = src.limit_amount
		WHEN NOT MATCHED THEN
			INSERT (user_id, category, limit_amount)
			VALUES (src.user_id, src.category, src.limit_amount)
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
		{Name: "category", Value: b.Category},
		{Name: "limit_amount", Value: b.Limit.Rat()},
	})
	if err != nil {
		return fmt.Errorf("UpsertBudget: %w", err)
	}
	return nil
}

// DeleteBudget implements store.RecordStore. Budgets are deleted
// independently of transactions; nothing cascades.
func (s *Store) DeleteBudget(ctx context.Context, principalID, category string) error {
	err := s.runDML(ctx, `
		DELETE FROM `+s.table(budgetsTable)+`
		WHERE user_id = @user_id
		  AND category = @category
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
		{Name: "category", Value: category},
	})
	if err != nil {
		return fmt.Errorf("DeleteBudget: %w", err)
	}
	return nil
}

// queryBudgets fetches all of a principal's budgets.
func (s *Store) queryBudgets(ctx context.Context, principalID string) ([]domain.Budget, error) {
	q := s.client.Query(`
		SELECT user_id, category, limit_amount
		FROM ` + s.table(budgetsTable) + `
		WHERE user_id = @user_id
		ORDER BY category
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryBudgets: reading query: %w", err)
	}

	var out []domain.Budget
	for {
		var row BudgetRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("queryBudgets: iterating: %w", err)
		}
		out = append(out, row.domain())
	}
	return out, nil
}
