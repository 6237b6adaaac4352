package tui

import (
	"context"

	"github.com/andrewpaige1/studybuddy/session"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.notes.SetWidth(min(max(msg.Width-4, 20), 100))
		return m, nil

	case tickMsg:
		return m, tick()

	case opDoneMsg:
		if m.inFlight > 0 {
			m.inFlight--
		}
		m.rerender()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case notesMode, categoryMode:
			return m, m.updateEditing(msg)
		case confirmMode:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateBrowse(msg)
		}
	}

	return m, m.forwardToInputs(msg)
}

func (m *Model) updateEditing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.blurInputs()
		m.mode = browseMode
		return nil

	case "ctrl+o":
		if m.mode == notesMode {
			m.notes.Blur()
			m.mode = categoryMode
			return m.category.Focus()
		}
		m.category.Blur()
		m.mode = notesMode
		return m.notes.Focus()

	case "ctrl+g":
		if m.busy() {
			return nil
		}
		m.blurInputs()
		m.mode = browseMode
		m.cursor = 0
		notes, category := m.notes.Value(), m.category.Value()
		return m.run(func(ctx context.Context) error {
			return m.manager.Generate(ctx, notes, category)
		})
	}

	return m.forwardToInputs(msg)
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	m.mode = browseMode
	id := m.pendingDelete
	m.pendingDelete = 0
	if answer := msg.String(); answer != "y" && answer != "Y" {
		return nil
	}
	return m.run(func(ctx context.Context) error {
		return m.manager.DeleteFlashcard(ctx, id, func(string) bool { return true })
	})
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit

	case "tab":
		next := session.SavedView
		if m.manager.View() == session.SavedView {
			next = session.GeneratorView
		}
		m.cursor = 0
		return m.run(func(ctx context.Context) error {
			return m.manager.ShowView(ctx, next)
		})

	case "i":
		if m.manager.View() != session.GeneratorView {
			return nil
		}
		m.mode = notesMode
		return m.notes.Focus()

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "j", "down":
		if m.cursor < len(m.cards())-1 {
			m.cursor++
		}

	case " ", "space", "enter":
		if card, ok := m.selected(); ok {
			m.flipped[card.Token] = !m.flipped[card.Token]
		}

	case "s":
		card, ok := m.selected()
		if !ok || card.Saved || m.manager.View() != session.GeneratorView {
			return nil
		}
		return m.run(func(ctx context.Context) error {
			return m.manager.SaveCard(ctx, card.Token)
		})

	case "a":
		if m.manager.View() != session.GeneratorView {
			return nil
		}
		return m.run(func(ctx context.Context) error {
			_, err := m.manager.SaveAll(ctx)
			return err
		})

	case "d":
		card, ok := m.selected()
		if !ok || !card.HasID() {
			return nil
		}
		m.pendingDelete = card.IDValue()
		m.mode = confirmMode

	case "c":
		if m.manager.View() != session.SavedView {
			return nil
		}
		m.cycleCategory()
	}
	return nil
}

func (m *Model) cycleCategory() {
	options := m.manager.Categories()
	current := m.manager.Filter()
	next := 0
	for i, opt := range options {
		if opt.Value == current {
			next = (i + 1) % len(options)
			break
		}
	}
	m.manager.FilterByCategory(options[next].Value)
	m.cursor = 0
	m.rerender()
}

func (m *Model) blurInputs() {
	m.notes.Blur()
	m.category.Blur()
}

func (m *Model) forwardToInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	cmds = append(cmds, cmd)
	m.category, cmd = m.category.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}
