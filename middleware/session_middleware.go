package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andrewpaige1/studybuddy/config"
	"github.com/andrewpaige1/studybuddy/session"
	"github.com/andrewpaige1/studybuddy/utils"
)

// SessionCookie names the cookie that carries the visitor's session id.
const SessionCookie = "studybuddy_session"

// SessionMiddleware ensures the visitor has a session manager and attaches
// it to the request context. Unknown or expired ids get a fresh session,
// whose initial load runs to completion even if the browser gives up.
func SessionMiddleware(registry *session.Registry, env config.Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var manager *session.Manager
			if c, err := r.Cookie(SessionCookie); err == nil {
				manager, _ = registry.Get(c.Value)
			}

			if manager == nil {
				var id string
				id, manager = registry.Create(context.WithoutCancel(r.Context()))
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					Domain:   cookieDomain(env),
					HttpOnly: true,
					Secure:   env.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
				slog.Info("started session", "session", id, "remote", r.RemoteAddr)
			}

			next.ServeHTTP(w, r.WithContext(utils.WithSession(r.Context(), manager)))
		})
	}
}

// Host-only cookies in development, since browsers reject Domain=localhost.
func cookieDomain(env config.Environment) string {
	if env.IsDevelopment {
		return ""
	}
	return env.Domain
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}
