package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
)

// NotificationsHandler handles listing and acknowledging notifications.
type NotificationsHandler struct {
	sessions *session.Manager
	log      zerolog.Logger
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(sessions *session.Manager, log zerolog.Logger) *NotificationsHandler {
	return &NotificationsHandler{sessions: sessions, log: log}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	notifications := s.Snapshot().Notifications
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	middleware.WriteJSON(w, http.StatusOK, notifications)
}

// MarkRead handles POST /api/notifications/read: marks every notification as
// read. This never round-trips to the record store.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFor(w, r, h.sessions)
	if !ok {
		return
	}

	snapshot, err := s.Dispatcher().MarkNotificationsRead()
	if err != nil {
		writeDispatchError(w, h.log, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]int{"notifications": len(snapshot.Notifications)})
}
