package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrewpaige1/studybuddy/client"
	"github.com/andrewpaige1/studybuddy/config"
	"github.com/andrewpaige1/studybuddy/session"
	"github.com/andrewpaige1/studybuddy/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyBackend struct{}

func (emptyBackend) GenerateQuestions(context.Context, string) ([]client.QuestionPair, error) {
	return nil, nil
}
func (emptyBackend) SaveFlashcard(context.Context, string, string, string) (int64, error) {
	return 1, nil
}
func (emptyBackend) ListFlashcards(context.Context) ([]client.SavedFlashcard, error) {
	return []client.SavedFlashcard{}, nil
}
func (emptyBackend) ListCategories(context.Context) ([]string, error) { return nil, nil }
func (emptyBackend) DeleteFlashcard(context.Context, int64) error     { return nil }

func newRegistry() *session.Registry {
	return session.NewRegistry(func() *session.Manager { return session.NewManager(emptyBackend{}) }, time.Hour)
}

func TestSessionMiddlewareCreatesAndReuses(t *testing.T) {
	registry := newRegistry()
	var seen []*session.Manager
	h := SessionMiddleware(registry, config.Environment{IsDevelopment: true, Domain: "localhost"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, ok := utils.GetSession(r)
			require.True(t, ok)
			seen = append(seen, m)
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Domain)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())

	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
	assert.Equal(t, 1, registry.Len())
}

func TestSessionMiddlewareReplacesUnknownSession(t *testing.T) {
	registry := newRegistry()
	h := SessionMiddleware(registry, config.Environment{Domain: "study.example.com", CookieSecure: true})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "expired", cookies[0].Value)
	assert.Equal(t, "study.example.com", cookies[0].Domain)
	assert.True(t, cookies[0].Secure)
}

func TestRequestLoggerPassesStatus(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
