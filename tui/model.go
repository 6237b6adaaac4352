// Package tui is a terminal front end over a study session.
package tui

import (
	"context"
	"time"

	"github.com/andrewpaige1/studybuddy/models"
	"github.com/andrewpaige1/studybuddy/session"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	browseMode mode = iota
	notesMode
	categoryMode
	confirmMode
)

// opDoneMsg reports that a session operation finished. Its error has
// already been posted to the session messages.
type opDoneMsg struct {
	err error
}

type tickMsg struct{}

type Model struct {
	ctx     context.Context
	manager *session.Manager

	notes    textarea.Model
	category textinput.Model

	mode          mode
	cursor        int
	flipped       map[string]bool
	pendingDelete int64
	inFlight      int
	width         int
}

func NewModel(ctx context.Context, manager *session.Manager) Model {
	notes := textarea.New()
	notes.Placeholder = "Paste your study notes here..."
	notes.SetWidth(72)
	notes.SetHeight(8)
	notes.CharLimit = 0

	category := textinput.New()
	category.Placeholder = models.DefaultCategory
	category.Prompt = "Category: "

	return Model{
		ctx:      ctx,
		manager:  manager,
		notes:    notes,
		category: category,
		mode:     browseMode,
		flipped:  make(map[string]bool),
		width:    80,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tick(), m.run(m.manager.Start))
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

// run executes op off the UI loop. Each op reports back with one opDoneMsg.
func (m *Model) run(op func(context.Context) error) tea.Cmd {
	m.inFlight++
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: op(ctx)}
	}
}

func (m *Model) busy() bool {
	return m.inFlight > 0
}

// cards returns the collection shown by the active view.
func (m *Model) cards() []models.Flashcard {
	if m.manager.View() == session.SavedView {
		return m.manager.VisibleSavedCards()
	}
	return m.manager.CurrentBatch()
}

func (m *Model) selected() (models.Flashcard, bool) {
	cards := m.cards()
	if m.cursor < 0 || m.cursor >= len(cards) {
		return models.Flashcard{}, false
	}
	return cards[m.cursor], true
}

// rerender forgets flip state and keeps the cursor on a card, the way a
// fresh render of the grid would.
func (m *Model) rerender() {
	m.flipped = make(map[string]bool)
	if n := len(m.cards()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}
