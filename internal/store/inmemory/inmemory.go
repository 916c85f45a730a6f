// Package inmemory is a RecordStore held entirely in process memory. It is
// safe for concurrent use and is what tests and local development run
// against; data is lost on restart.
package inmemory

import (
	"context"
	"sync"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/store"
)

type principalData struct {
	transactions []domain.Transaction
	budgets      []domain.Budget
	recurring    []domain.RecurringItem
	plan         domain.BudgetPlan
}

// Store is an in-memory implementation of store.RecordStore.
type Store struct {
	mu   sync.RWMutex
	data map[string]*principalData
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{data: make(map[string]*principalData)}
}

var _ store.RecordStore = (*Store)(nil)

// principal returns the data bucket for a principal, creating it on first
// touch. Caller holds s.mu for writing.
func (s *Store) principal(id string) *principalData {
	d, ok := s.data[id]
	if !ok {
		d = &principalData{}
		s.data[id] = d
	}
	return d
}

// FetchAll implements store.RecordStore. Returned slices are copies, so the
// caller can hand them to a snapshot without aliasing store memory.
func (s *Store) FetchAll(ctx context.Context, principalID string) (store.InitialData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.data[principalID]
	if !ok {
		return store.InitialData{}, nil
	}
	return store.InitialData{
		Transactions: append([]domain.Transaction(nil), d.transactions...),
		Budgets:      append([]domain.Budget(nil), d.budgets...),
		Recurring:    append([]domain.RecurringItem(nil), d.recurring...),
		Plan:         d.plan,
	}, nil
}

// CreateTransaction implements store.RecordStore, prepending newest first to
// match the session ordering.
func (s *Store) CreateTransaction(ctx context.Context, principalID string, t domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	d.transactions = append([]domain.Transaction{t}, d.transactions...)
	return nil
}

// UpdateTransaction implements store.RecordStore. Unknown ids are a no-op.
func (s *Store) UpdateTransaction(ctx context.Context, principalID string, t domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	for i := range d.transactions {
		if d.transactions[i].ID == t.ID {
			d.transactions[i] = t
			return nil
		}
	}
	return nil
}

// DeleteTransaction implements store.RecordStore. Unknown ids are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, principalID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	out := d.transactions[:0]
	for _, t := range d.transactions {
		if t.ID != id {
			out = append(out, t)
		}
	}
	d.transactions = out
	return nil
}

// BulkImportTransactions implements store.RecordStore.
func (s *Store) BulkImportTransactions(ctx context.Context, principalID string, transactions []domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	d.transactions = append(append([]domain.Transaction(nil), transactions...), d.transactions...)
	return nil
}

// UpsertBudget implements store.RecordStore.
func (s *Store) UpsertBudget(ctx context.Context, principalID string, b domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	for i := range d.budgets {
		if d.budgets[i].Category == b.Category {
			d.budgets[i] = b
			return nil
		}
	}
	d.budgets = append(d.budgets, b)
	return nil
}

// DeleteBudget implements store.RecordStore.
func (s *Store) DeleteBudget(ctx context.Context, principalID, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	out := d.budgets[:0]
	for _, b := range d.budgets {
		if b.Category != category {
			out = append(out, b)
		}
	}
	d.budgets = out
	return nil
}

// CreateRecurring implements store.RecordStore.
func (s *Store) CreateRecurring(ctx context.Context, principalID string, item domain.RecurringItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	d.recurring = append(d.recurring, item)
	return nil
}

// UpdateRecurring implements store.RecordStore. Unknown ids are a no-op.
func (s *Store) UpdateRecurring(ctx context.Context, principalID string, item domain.RecurringItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	for i := range d.recurring {
		if d.recurring[i].ID == item.ID {
			d.recurring[i] = item
			return nil
		}
	}
	return nil
}

// DeleteRecurring implements store.RecordStore. Unknown ids are a no-op.
func (s *Store) DeleteRecurring(ctx context.Context, principalID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.principal(principalID)
	out := d.recurring[:0]
	for _, r := range d.recurring {
		if r.ID != id {
			out = append(out, r)
		}
	}
	d.recurring = out
	return nil
}

// SavePlan implements store.RecordStore. One plan per principal; a save
// replaces the previous plan wholesale.
func (s *Store) SavePlan(ctx context.Context, principalID string, plan domain.BudgetPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.principal(principalID).plan = plan
	return nil
}
