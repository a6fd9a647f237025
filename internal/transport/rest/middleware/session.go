package middleware

import (
	"chatlens/internal/service"
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

type contextKey string

const SessionIDKey contextKey = "sessionId"

// SessionCookie is the name of the signed viewing-session cookie
const SessionCookie = "chatlens_session"

// SessionMiddleware ties every request to a viewing session
type SessionMiddleware struct {
	sessionSvc *service.SessionService
	secure     bool
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(sessionSvc *service.SessionService, secure bool) *SessionMiddleware {
	return &SessionMiddleware{sessionSvc: sessionSvc, secure: secure}
}

// Attach reuses the session of a valid cookie or starts a fresh one
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err == nil {
			if claims, err := m.sessionSvc.Validate(c.Value); err == nil {
				ctx := context.WithValue(r.Context(), SessionIDKey, claims.SessionID)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		sessionID, token, err := m.sessionSvc.Issue()
		if err != nil {
			log.Error().Err(err).Msg("Failed to issue session")
			http.Error(w, `{"error":"failed to start session"}`, http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(m.sessionSvc.TTL().Seconds()),
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session ID from context
func GetSessionID(ctx context.Context) string {
	if v := ctx.Value(SessionIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// WithSessionID returns a context carrying the session ID
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}
