// Package dispatch wraps mutating intents with optimistic synchronization:
// every mutation is applied to the session state store synchronously, then the
// matching Record Store call is forwarded to a background worker over a
// buffered channel. Remote failures are logged and never rolled back; local
// state stays the source of truth until the next explicit Refresh or reload.
// This last-write-wins, no-rollback policy is a chosen consistency trade-off
// for the domain, not an oversight.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/state"
	"github.com/budgetbuddy/budgetbuddy/internal/store"
)

var (
	// ErrNoPrincipal is returned when a mutation arrives with no active
	// principal; the intent is rejected before touching local state.
	ErrNoPrincipal = errors.New("dispatch: no active principal")

	// ErrNotLoaded is returned for mutations that arrive before the initial
	// load has completed. Plan uploads are exempt.
	ErrNotLoaded = errors.New("dispatch: snapshot not loaded")

	// ErrClosed is returned once the dispatcher has been stopped.
	ErrClosed = errors.New("dispatch: dispatcher closed")
)

// remoteOp is one queued Record Store call.
type remoteOp struct {
	name string
	call func(ctx context.Context) error
}

// Dispatcher connects a session's state store to the Record Store.
type Dispatcher struct {
	principalID string
	local       *state.Store
	records     store.RecordStore
	log         zerolog.Logger

	ops       chan remoteOp
	closeChan chan struct{}
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// New creates a dispatcher for one principal's session. bufferSize bounds how
// many remote calls can be pending before Dispatch blocks.
func New(principalID string, local *state.Store, records store.RecordStore, bufferSize int, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		principalID: principalID,
		local:       local,
		records:     records,
		log:         log,
		ops:         make(chan remoteOp, bufferSize),
		closeChan:   make(chan struct{}),
	}
}

// Start launches the background worker that drains queued Record Store calls.
// Calls run until Stop is invoked or ctx is cancelled. Remote calls are
// unordered relative to each other from the server's point of view; the local
// optimistic view always reflects the most recent local intent.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case op, ok := <-d.ops:
				if !ok {
					return
				}
				if err := op.call(ctx); err != nil {
					// Logged only: the optimistic local change stands.
					d.log.Error().
						Err(err).
						Str("op", op.name).
						Str("principal_id", d.principalID).
						Msg("Remote sync failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop closes the queue and waits for in-flight calls to finish, or for ctx
// to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.closeChan)
	close(d.ops)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("Stop: waiting for pending syncs: %w", ctx.Err())
	}
}

// dispatch applies the intent locally, then enqueues the remote call. The
// local apply is synchronous, so the returned snapshot already reflects the
// mutation and any alerts it triggered.
func (d *Dispatcher) dispatch(intent state.Intent, op remoteOp) (domain.Snapshot, error) {
	if d.principalID == "" {
		return domain.Snapshot{}, ErrNoPrincipal
	}
	if _, exempt := intent.(state.UploadPlan); !exempt {
		if d.local.Snapshot().Loading {
			return domain.Snapshot{}, ErrNotLoaded
		}
	}

	snapshot := d.local.Apply(intent)

	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		d.log.Warn().Str("op", op.name).Msg("Dispatcher closed, dropping remote sync")
		return snapshot, nil
	}

	select {
	case d.ops <- op:
	case <-d.closeChan:
		d.log.Warn().Str("op", op.name).Msg("Dispatcher closed, dropping remote sync")
	}
	return snapshot, nil
}

// AddTransaction records a new transaction.
func (d *Dispatcher) AddTransaction(t domain.Transaction) (domain.Snapshot, error) {
	return d.dispatch(state.AddTransaction{Transaction: t}, remoteOp{
		name: "create_transaction",
		call: func(ctx context.Context) error {
			return d.records.CreateTransaction(ctx, d.principalID, t)
		},
	})
}

// EditTransaction replaces an existing transaction by id.
func (d *Dispatcher) EditTransaction(t domain.Transaction) (domain.Snapshot, error) {
	return d.dispatch(state.EditTransaction{Transaction: t}, remoteOp{
		name: "update_transaction",
		call: func(ctx context.Context) error {
			return d.records.UpdateTransaction(ctx, d.principalID, t)
		},
	})
}

// DeleteTransaction removes a transaction by id. Unknown ids are a no-op.
func (d *Dispatcher) DeleteTransaction(id string) (domain.Snapshot, error) {
	return d.dispatch(state.DeleteTransaction{ID: id}, remoteOp{
		name: "delete_transaction",
		call: func(ctx context.Context) error {
			return d.records.DeleteTransaction(ctx, d.principalID, id)
		},
	})
}

// ImportTransactions records a parsed CSV batch.
func (d *Dispatcher) ImportTransactions(transactions []domain.Transaction) (domain.Snapshot, error) {
	return d.dispatch(state.ImportTransactions{Transactions: transactions}, remoteOp{
		name: "bulk_import_transactions",
		call: func(ctx context.Context) error {
			return d.records.BulkImportTransactions(ctx, d.principalID, transactions)
		},
	})
}

// SetBudget upserts a budget by category.
func (d *Dispatcher) SetBudget(b domain.Budget) (domain.Snapshot, error) {
	return d.dispatch(state.SetBudget{Budget: b}, remoteOp{
		name: "upsert_budget",
		call: func(ctx context.Context) error {
			return d.records.UpsertBudget(ctx, d.principalID, b)
		},
	})
}

// DeleteBudget removes the budget for a category.
func (d *Dispatcher) DeleteBudget(category string) (domain.Snapshot, error) {
	return d.dispatch(state.DeleteBudget{Category: category}, remoteOp{
		name: "delete_budget",
		call: func(ctx context.Context) error {
			return d.records.DeleteBudget(ctx, d.principalID, category)
		},
	})
}

// AddRecurring registers a recurring item.
func (d *Dispatcher) AddRecurring(item domain.RecurringItem) (domain.Snapshot, error) {
	return d.dispatch(state.AddRecurring{Item: item}, remoteOp{
		name: "create_recurring",
		call: func(ctx context.Context) error {
			return d.records.CreateRecurring(ctx, d.principalID, item)
		},
	})
}

// EditRecurring replaces an existing recurring item by id.
func (d *Dispatcher) EditRecurring(item domain.RecurringItem) (domain.Snapshot, error) {
	return d.dispatch(state.EditRecurring{Item: item}, remoteOp{
		name: "update_recurring",
		call: func(ctx context.Context) error {
			return d.records.UpdateRecurring(ctx, d.principalID, item)
		},
	})
}

// DeleteRecurring removes a recurring item by id. Unknown ids are a no-op.
func (d *Dispatcher) DeleteRecurring(id string) (domain.Snapshot, error) {
	return d.dispatch(state.DeleteRecurring{ID: id}, remoteOp{
		name: "delete_recurring",
		call: func(ctx context.Context) error {
			return d.records.DeleteRecurring(ctx, d.principalID, id)
		},
	})
}

// UploadPlan replaces the budget plan document. Exempt from the loading gate.
func (d *Dispatcher) UploadPlan(plan domain.BudgetPlan) (domain.Snapshot, error) {
	return d.dispatch(state.UploadPlan{Plan: plan}, remoteOp{
		name: "save_plan",
		call: func(ctx context.Context) error {
			return d.records.SavePlan(ctx, d.principalID, plan)
		},
	})
}

// MarkNotificationsRead is pure-local: the derived notification list is never
// persisted, only its read state within the session.
func (d *Dispatcher) MarkNotificationsRead() (domain.Snapshot, error) {
	if d.principalID == "" {
		return domain.Snapshot{}, ErrNoPrincipal
	}
	return d.local.Apply(state.MarkNotificationsRead{}), nil
}

// Refresh re-fetches the principal's records and replaces the local snapshot
// wholesale. It is the explicit recovery path for drift after multi-device
// edits; nothing triggers it automatically.
func (d *Dispatcher) Refresh(ctx context.Context) (domain.Snapshot, error) {
	if d.principalID == "" {
		return domain.Snapshot{}, ErrNoPrincipal
	}
	data, err := d.records.FetchAll(ctx, d.principalID)
	if err != nil {
		return d.local.Snapshot(), fmt.Errorf("Refresh: fetch records: %w", err)
	}
	return d.local.Apply(state.SetInitialData{
		Transactions: data.Transactions,
		Budgets:      data.Budgets,
		Recurring:    data.Recurring,
		Plan:         data.Plan,
	}), nil
}
