package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/store"
)

// Manager hands out one live session per principal, creating and initializing
// it on first use. Sessions run against a shared long-lived context, not the
// request context that happened to create them.
type Manager struct {
	records store.RecordStore
	log     zerolog.Logger
	base    context.Context

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager(records store.RecordStore, log zerolog.Logger) *Manager {
	return &Manager{
		records:  records,
		log:      log,
		base:     context.Background(),
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session for the principal, constructing and
// initializing it if this is the principal's first request. Initialization
// runs against the manager's lifetime, not the request that happened to
// arrive first, so the sync worker outlives the request.
func (m *Manager) Get(ctx context.Context, principalID string) *Session {
	m.mu.Lock()
	s, ok := m.sessions[principalID]
	if !ok {
		s = New(principalID, m.records, m.log)
		m.sessions[principalID] = s
	}
	m.mu.Unlock()

	s.Initialize(m.base)
	return s
}

// CloseAll tears down every live session, draining pending syncs until ctx
// expires.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		if err := s.Close(ctx); err != nil {
			m.log.Error().Err(err).Str("principal_id", s.PrincipalID()).Msg("Session close failed")
		}
	}
}
