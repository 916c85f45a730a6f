// Package bigquery is the durable RecordStore backed by BigQuery. Tables live
// in one dataset (transactions, budgets, recurring_items, plans) and every
// row carries the owning principal's user_id; all queries filter on it.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"

	"github.com/budgetbuddy/budgetbuddy/internal/store"
)

const (
	transactionsTable = "transactions"
	budgetsTable      = "budgets"
	recurringTable    = "recurring_items"
	plansTable        = "plans"
)

// Store implements store.RecordStore on BigQuery.
type Store struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

var _ store.RecordStore = (*Store)(nil)

// NewStore creates a record store with a shared BigQuery client.
func NewStore(ctx context.Context, projectID, datasetID string) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: creating client: %w", err)
	}
	return &Store{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// table returns the fully qualified table name for query text.
func (s *Store) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.projectID, s.datasetID, name)
}

// inserter returns the streaming inserter for a table.
func (s *Store) inserter(name string) *bigquery.Inserter {
	return s.client.DatasetInProject(s.projectID, s.datasetID).Table(name).Inserter()
}

// runDML runs a parameterized DML statement and waits for completion.
func (s *Store) runDML(ctx context.Context, queryText string, params []bigquery.QueryParameter) error {
	q := s.client.Query(queryText)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job failed: %w", err)
	}
	return nil
}
