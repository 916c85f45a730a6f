package state

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/alerts"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
)

// Store owns the session snapshot. Applications are serialized under a single
// mutex (single-writer discipline): no two intents interleave mid-update, and
// readers always observe a settled post-reducer snapshot. Alert re-evaluation
// happens synchronously inside the same critical section, so the snapshot a
// caller gets back already includes any freshly derived notifications.
type Store struct {
	mu       sync.Mutex
	snapshot domain.Snapshot
	now      func() time.Time
	log      zerolog.Logger
}

// NewStore creates a store in the loading state; the session flips it out of
// loading by applying SetInitialData (or SetLoading on fetch failure).
func NewStore(log zerolog.Logger) *Store {
	return NewStoreWithClock(log, time.Now)
}

// NewStoreWithClock is NewStore with an injectable clock for tests.
func NewStoreWithClock(log zerolog.Logger, now func() time.Time) *Store {
	return &Store{
		snapshot: domain.Snapshot{Loading: true},
		now:      now,
		log:      log,
	}
}

// Snapshot returns the current settled snapshot.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Apply runs the intent through the reducer and, for intents that mutate
// transactions, budgets or recurring items while the snapshot is loaded,
// re-runs the alert engine and merges the candidates. It returns the settled
// snapshot for this update cycle.
func (s *Store) Apply(intent Intent) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = Reduce(s.snapshot, intent)

	if MutatesRecords(intent) && !s.snapshot.Loading {
		s.evaluateAlerts()
	}
	return s.snapshot
}

// evaluateAlerts merges alert candidates into the notification list. The
// AddNotification reduction discards candidates whose id already exists, so a
// re-triggered alert never resets an entry's read flag. Caller holds s.mu.
func (s *Store) evaluateAlerts() {
	candidates := alerts.Evaluate(s.now(), s.snapshot)
	added := 0
	for _, candidate := range candidates {
		if s.snapshot.HasNotification(candidate.ID) {
			continue
		}
		s.snapshot = Reduce(s.snapshot, AddNotification{Notification: candidate})
		added++
	}
	if added > 0 {
		s.log.Debug().Int("count", added).Msg("New alert notifications")
	}
}
