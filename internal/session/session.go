// Package session ties a principal to an owned state store and dispatcher
// with an explicit lifecycle: constructed at sign-in, torn down at sign-out.
// There is deliberately no package-level singleton; whoever needs session
// state receives a *Session by injection.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/dispatch"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/state"
	"github.com/budgetbuddy/budgetbuddy/internal/store"
)

// syncBufferSize bounds pending fire-and-forget Record Store calls.
const syncBufferSize = 100

// Session is one principal's live session.
type Session struct {
	principalID string
	local       *state.Store
	dispatcher  *dispatch.Dispatcher
	log         zerolog.Logger

	initOnce sync.Once
}

// New constructs a session for the given principal. The session starts in the
// loading state; call Initialize to perform the initial fetch.
func New(principalID string, records store.RecordStore, log zerolog.Logger) *Session {
	sessionLog := log.With().Str("principal_id", principalID).Logger()
	local := state.NewStore(sessionLog)
	return &Session{
		principalID: principalID,
		local:       local,
		dispatcher:  dispatch.New(principalID, local, records, syncBufferSize, sessionLog),
		log:         sessionLog,
	}
}

// PrincipalID returns the principal the session is scoped to.
func (s *Session) PrincipalID() string {
	return s.principalID
}

// Snapshot returns the current settled snapshot.
func (s *Session) Snapshot() domain.Snapshot {
	return s.local.Snapshot()
}

// Dispatcher exposes the mutation surface for this session.
func (s *Session) Dispatcher() *dispatch.Dispatcher {
	return s.dispatcher
}

// Initialize performs the one initial load for this session and starts the
// sync worker. Exactly one load runs regardless of how many callers race
// here. On fetch failure the session leaves prior (empty) state in place,
// logs, clears the loading flag and does not retry; a later Refresh is the
// recovery path.
func (s *Session) Initialize(ctx context.Context) domain.Snapshot {
	s.initOnce.Do(func() {
		s.dispatcher.Start(ctx)

		if _, err := s.dispatcher.Refresh(ctx); err != nil {
			s.log.Error().Err(err).Msg("Initial load failed")
			s.local.Apply(state.SetLoading{Loading: false})
		}
	})
	return s.local.Snapshot()
}

// Refresh re-fetches the authoritative records, replacing local state
// wholesale.
func (s *Session) Refresh(ctx context.Context) (domain.Snapshot, error) {
	return s.dispatcher.Refresh(ctx)
}

// Close stops the sync worker, waiting for pending remote calls until ctx
// expires.
func (s *Session) Close(ctx context.Context) error {
	return s.dispatcher.Stop(ctx)
}
