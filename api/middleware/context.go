package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ordering-engine/api/responses"
	"github.com/angelmondragon/ordering-engine/internal/session"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
)

type contextKey string

const ctxSession contextKey = "session"

// SessionGetter resolves a session by id.
type SessionGetter interface {
	Get(id string) (*session.Session, error)
}

// SessionFromContext returns the session resolved by LoadSession.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return v
	}
	return nil
}

// WithSession injects the session into the context for downstream handlers.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, s)
}

// LoadSession resolves the {sessionId} URL parameter and rejects unknown sessions.
func LoadSession(sessions SessionGetter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := sessions.Get(chi.URLParam(r, "sessionId"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx := WithSession(r.Context(), s)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, s.ID())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
