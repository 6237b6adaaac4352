package utils

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/andrewpaige1/studybuddy/session"
)

type sessionKey struct{}

// WithSession attaches the visitor's session manager to ctx.
func WithSession(ctx context.Context, m *session.Manager) context.Context {
	return context.WithValue(ctx, sessionKey{}, m)
}

func GetSession(r *http.Request) (*session.Manager, bool) {
	m, ok := r.Context().Value(sessionKey{}).(*session.Manager)
	return m, ok && m != nil
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("could not encode response", "error", err)
	}
}

// WriteError writes the {"error": msg} shape the frontend expects.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}
