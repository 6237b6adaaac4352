package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/andrewpaige1/studybuddy/render"
	"github.com/andrewpaige1/studybuddy/session"
	"github.com/andrewpaige1/studybuddy/utils"
)

// UIHandler serves the study page and the actions its script posts. Every
// action answers with a freshly rendered #app fragment; operation failures
// have already been posted to the session's messages, so they still get a
// 200.
//
// Sessions wraps each route, so only requests that reach a page or an
// action start a session.
type UIHandler struct {
	Renderer *render.Renderer
	Sessions func(http.Handler) http.Handler
}

func (h *UIHandler) Routes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", h.withSession(h.Index))
	mux.Handle("POST /ui/view/{view}", h.withSession(h.ShowView))
	mux.Handle("POST /ui/generate", h.withSession(h.Generate))
	mux.Handle("POST /ui/save/{token}", h.withSession(h.SaveFlashcard))
	mux.Handle("POST /ui/save-all", h.withSession(h.SaveAll))
	mux.Handle("POST /ui/delete/{flashcardID}", h.withSession(h.DeleteFlashcard))
	mux.Handle("GET /ui/saved", h.withSession(h.FilterSaved))
}

func (h *UIHandler) withSession(fn http.HandlerFunc) http.Handler {
	if h.Sessions == nil {
		return fn
	}
	return h.Sessions(fn)
}

func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Renderer.Page(w, render.FromManager(m)); err != nil {
		slog.Error("could not render page", "error", err)
	}
}

func (h *UIHandler) ShowView(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := session.ParseView(r.PathValue("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !keepDraft(w, r, m) {
		return
	}
	_ = m.ShowView(detached(r), view)
	h.fragment(w, m)
}

func (h *UIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Could not parse form", http.StatusBadRequest)
		return
	}
	_ = m.Generate(detached(r), r.PostFormValue("notes"), r.PostFormValue("category"))
	h.fragment(w, m)
}

func (h *UIHandler) SaveFlashcard(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	if !keepDraft(w, r, m) {
		return
	}
	_ = m.SaveCard(detached(r), r.PathValue("token"))
	h.fragment(w, m)
}

func (h *UIHandler) SaveAll(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	if !keepDraft(w, r, m) {
		return
	}
	_, _ = m.SaveAll(detached(r))
	h.fragment(w, m)
}

func (h *UIHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	flashcardID, err := strconv.ParseInt(r.PathValue("flashcardID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid flashcard ID", http.StatusBadRequest)
		return
	}
	if !keepDraft(w, r, m) {
		return
	}
	confirmed := r.PostFormValue("confirm") == "yes"
	_ = m.DeleteFlashcard(detached(r), flashcardID, func(string) bool { return confirmed })
	h.fragment(w, m)
}

func (h *UIHandler) FilterSaved(w http.ResponseWriter, r *http.Request) {
	m, ok := h.session(w, r)
	if !ok {
		return
	}
	m.FilterByCategory(r.URL.Query().Get("category"))
	h.fragment(w, m)
}

func (h *UIHandler) session(w http.ResponseWriter, r *http.Request) (*session.Manager, bool) {
	m, ok := utils.GetSession(r)
	if !ok {
		http.Error(w, "No session", http.StatusInternalServerError)
		return nil, false
	}
	return m, true
}

func (h *UIHandler) fragment(w http.ResponseWriter, m *session.Manager) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Renderer.App(w, render.FromManager(m)); err != nil {
		slog.Error("could not render fragment", "error", err)
	}
}

// keepDraft stores the notes form the page sends along with every action,
// so the re-rendered generator still holds what the user typed.
func keepDraft(w http.ResponseWriter, r *http.Request, m *session.Manager) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Could not parse form", http.StatusBadRequest)
		return false
	}
	if r.PostForm.Has("notes") {
		m.SetDraft(r.PostFormValue("notes"), r.PostFormValue("category"))
	}
	return true
}

// Backend calls outlive the browser request: once issued they run to
// completion.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
