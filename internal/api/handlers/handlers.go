// Package handlers exposes the session core over HTTP. Every handler resolves
// the caller's session from the authenticated principal and works against its
// dispatcher, so mutations are optimistic locally and fire-and-forget against
// the Record Store.
package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/budgetbuddy/budgetbuddy/internal/api/middleware"
	"github.com/budgetbuddy/budgetbuddy/internal/dispatch"
	"github.com/budgetbuddy/budgetbuddy/internal/session"
)

// sessionFor resolves the live session for the request's principal. A missing
// principal means the request skipped Auth; treat it as an auth failure.
func sessionFor(w http.ResponseWriter, r *http.Request, sessions *session.Manager) (*session.Session, bool) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == "" {
		middleware.WriteError(w, http.StatusUnauthorized, "Access denied. No token provided.")
		return nil, false
	}
	return sessions.Get(r.Context(), principal), true
}

// writeDispatchError maps dispatcher failures onto HTTP statuses.
func writeDispatchError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, dispatch.ErrNoPrincipal):
		middleware.WriteError(w, http.StatusUnauthorized, "No active principal")
	case errors.Is(err, dispatch.ErrNotLoaded):
		middleware.WriteError(w, http.StatusConflict, "Session data is still loading")
	default:
		log.Error().Err(err).Msg("Dispatch failed")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
