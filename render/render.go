// Package render turns session state into HTML. Every piece of card text
// goes through html/template's contextual escaping.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/andrewpaige1/studybuddy/models"
	"github.com/andrewpaige1/studybuddy/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData is everything the page and the #app fragment need.
type PageData struct {
	View       string
	Loading    bool
	MinNotes   int
	Notes      string
	Category   string
	Messages   []session.Message
	Batch      []models.Flashcard
	Saved      []models.Flashcard
	Categories []session.CategoryOption
	Filter     string
}

// FromManager snapshots a session for rendering. The saved grid shows the
// manager's remembered category filter.
func FromManager(m *session.Manager) PageData {
	notes, category := m.Draft()
	return PageData{
		View:       m.View().String(),
		Loading:    m.Loading(),
		MinNotes:   session.MinNotesLength,
		Notes:      notes,
		Category:   category,
		Messages:   m.Messages(),
		Batch:      m.CurrentBatch(),
		Saved:      m.VisibleSavedCards(),
		Categories: m.Categories(),
		Filter:     m.Filter(),
	}
}

// NotesLength counts the draft the way the generator validates it.
func (d PageData) NotesLength() int {
	return utf8.RuneCountInString(strings.TrimSpace(d.Notes))
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page writes the full HTML document.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.tmpl.ExecuteTemplate(w, "page", data)
}

// App writes only the #app fragment that the page script swaps in after
// each action.
func (r *Renderer) App(w io.Writer, data PageData) error {
	return r.tmpl.ExecuteTemplate(w, "app", data)
}

// Card writes a single card.
func (r *Renderer) Card(w io.Writer, card models.Flashcard) error {
	return r.tmpl.ExecuteTemplate(w, "card", card)
}

// StaticHandler serves the embedded script and stylesheet under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
