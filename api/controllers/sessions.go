package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ordering-engine/api/middleware"
	"github.com/angelmondragon/ordering-engine/api/responses"
	"github.com/angelmondragon/ordering-engine/internal/session"
	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
)

// SessionStore opens and closes ordering sessions.
type SessionStore interface {
	Create() *session.Session
	Close(id string) bool
}

type sessionResponse struct {
	SessionID string       `json:"sessionId"`
	CreatedAt time.Time    `json:"createdAt"`
	Cart      cartResponse `json:"cart"`
}

// SessionCreate opens a session with an empty cart.
func SessionCreate(store SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}
		s := store.Create()
		if logg != nil {
			logg.Info(logg.WithSessionID(r.Context(), s.ID()), "session.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{
			SessionID: s.ID(),
			CreatedAt: s.CreatedAt(),
			Cart:      newCartResponse(s.Cart()),
		})
	}
}

// SessionClose forgets a session and everything in it.
func SessionClose(store SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionId")
		if !store.Close(id) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "session not found"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"sessionId": id, "status": "closed"})
	}
}

// CartFetch returns the session cart with its totals.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return withSession(logg, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		responses.WriteSuccess(w, newCartResponse(s.Cart()))
	})
}

type sessionHandler func(http.ResponseWriter, *http.Request, *session.Session)

func withSession(logg *logger.Logger, fn sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := middleware.SessionFromContext(r.Context())
		if s == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "session not found"))
			return
		}
		fn(w, r, s)
	}
}
