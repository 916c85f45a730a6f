package bigquery

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/store"
)

// SavePlan implements store.RecordStore. One plan per principal; saving
// replaces the previous document wholesale.
func (s *Store) SavePlan(ctx context.Context, principalID string, plan domain.BudgetPlan) error {
	err := s.runDML(ctx, `
		MERGE `+s.table(plansTable)+` t
		USING (SELECT @user_id AS user_id, @file_name AS file_name, @content AS content) src
		ON t.user_id = src.user_id
		WHEN MATCHED THEN
			UPDATE SET file_name = src.file_name, content = src.content
		WHEN NOT MATCHED THEN
			INSERT (user_id, file_name, content)
			VALUES (src.user_id, src.file_name, src.content)
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
		{Name: "file_name", Value: plan.FileName},
		{Name: "content", Value: plan.Content},
	})
	if err != nil {
		return fmt.Errorf("SavePlan: %w", err)
	}
	return nil
}

// queryPlan fetches the principal's plan. A principal without a plan yields
// the zero BudgetPlan.
func (s *Store) queryPlan(ctx context.Context, principalID string) (domain.BudgetPlan, error) {
	q := s.client.Query(`
		SELECT user_id, file_name, content
		FROM ` + s.table(plansTable) + `
		WHERE user_id = @user_id
		LIMIT 1
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return domain.BudgetPlan{}, fmt.Errorf("queryPlan: reading query: %w", err)
	}

	var row PlanRow
	err = it.Next(&row)
	if errors.Is(err, iterator.Done) {
		return domain.BudgetPlan{}, nil
	}
	if err != nil {
		return domain.BudgetPlan{}, fmt.Errorf("queryPlan: iterating: %w", err)
	}
	return domain.BudgetPlan{FileName: row.FileName, Content: row.Content}, nil
}

// FetchAll implements store.RecordStore: the aggregated fast-load payload.
func (s *Store) FetchAll(ctx context.Context, principalID string) (store.InitialData, error) {
	transactions, err := s.queryTransactions(ctx, principalID)
	if err != nil {
		return store.InitialData{}, fmt.Errorf("FetchAll: %w", err)
	}
	budgets, err := s.queryBudgets(ctx, principalID)
	if err != nil {
		return store.InitialData{}, fmt.Errorf("FetchAll: %w", err)
	}
	recurring, err := s.queryRecurring(ctx, principalID)
	if err != nil {
		return store.InitialData{}, fmt.Errorf("FetchAll: %w", err)
	}
	plan, err := s.queryPlan(ctx, principalID)
	if err != nil {
		return store.InitialData{}, fmt.Errorf("FetchAll: %w", err)
	}

	return store.InitialData{
		Transactions: transactions,
		Budgets:      budgets,
		Recurring:    recurring,
		Plan:         plan,
	}, nil
}
