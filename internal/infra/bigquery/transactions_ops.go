package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// CreateTransaction implements store.RecordStore.
func (s *Store) CreateTransaction(ctx context.Context, principalID string, t domain.Transaction) error {
	if err := s.inserter(transactionsTable).Put(ctx, transactionRow(principalID, t)); err != nil {
		return fmt.Errorf("CreateTransaction: inserting row: %w", err)
	}
	return nil
}

// BulkImportTransactions implements store.RecordStore.
func (s *Store) BulkImportTransactions(ctx context.Context, principalID string, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}
	rows := make([]*TransactionRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, transactionRow(principalID, t))
	}
	if err := s.inserter(transactionsTable).Put(ctx, rows); err != nil {
		return fmt.Errorf("BulkImportTransactions: inserting rows: %w", err)
	}
	return nil
}

// UpdateTransaction implements store.RecordStore. Updating an id that does
// not exist matches zero rows and is not an error.
func (s *Store) UpdateTransaction(ctx context.Context, principalID string, t domain.Transaction) error {
	err := s.runDML(ctx, `
		UPDATE `+s.table(transactionsTable)+`
		SET transaction_date = @transaction_date,
			description = @description,
			amount = @amount,
			type = @type,
			category = @category
		WHERE user_id = @user_id
		  AND transaction_id = @transaction_id
	`, []bigquery.QueryParameter{
		{Name: "transaction_date", Value: t.Date},
		{Name: "description", Value: t.Description},
		{Name: "amount", Value: t.Amount.Rat()},
		{Name: "type", Value: string(t.Type)},
		{Name: "category", Value: t.Category},
		{Name: "user_id", Value: principalID},
		{Name: "transaction_id", Value: t.ID},
	})
	if err != nil {
		return fmt.Errorf("UpdateTransaction: %w", err)
	}
	return nil
}

// DeleteTransaction implements store.RecordStore (idempotent delete).
func (s *Store) DeleteTransaction(ctx context.Context, principalID, id string) error {
	err := s.runDML(ctx, `
		DELETE FROM `+s.table(transactionsTable)+`
		WHERE user_id = @user_id
		  AND transaction_id = @transaction_id
	`, []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
		{Name: "transaction_id", Value: id},
	})
	if err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}
	return nil
}

// queryTransactions fetches all of a principal's transactions, newest first.
func (s *Store) queryTransactions(ctx context.Context, principalID string) ([]domain.Transaction, error) {
	q := s.client.Query(`
		SELECT user_id, transaction_id, transaction_date, description, amount, type, category
		FROM ` + s.table(transactionsTable) + `
		WHERE user_id = @user_id
		ORDER BY transaction_date DESC
	`)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: principalID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryTransactions: reading query: %w", err)
	}

	var out []domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("queryTransactions: iterating: %w", err)
		}
		out = append(out, row.domain())
	}
	return out, nil
}
