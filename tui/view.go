package tui

import (
	"fmt"
	"strings"

	"github.com/andrewpaige1/studybuddy/models"
	"github.com/andrewpaige1/studybuddy/session"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("240"))
	activeTabStyle = tabStyle.Copy().Foreground(lipgloss.Color("205")).Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(60)

	focusedCardStyle = cardStyle.Copy().
				BorderForeground(lipgloss.Color("205"))

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AI Study Buddy"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	for _, msg := range m.manager.Messages() {
		style := successStyle
		if msg.Kind == session.MessageError {
			style = errorStyle
		}
		b.WriteString(style.Render(msg.Text))
		b.WriteString("\n")
	}

	if m.manager.View() == session.GeneratorView {
		b.WriteString(m.renderGenerator())
	} else {
		b.WriteString(m.renderSavedHeader())
	}

	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help()))
	return b.String()
}

func (m *Model) renderTabs() string {
	gen, saved := tabStyle, activeTabStyle
	if m.manager.View() == session.GeneratorView {
		gen, saved = activeTabStyle, tabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, gen.Render("Generate"), saved.Render("Saved Flashcards"))
}

func (m *Model) renderGenerator() string {
	var b strings.Builder
	b.WriteString(m.notes.View())
	b.WriteString("\n")
	count := len([]rune(strings.TrimSpace(m.notes.Value())))
	counter := fmt.Sprintf("%d / %d characters minimum", count, session.MinNotesLength)
	if count >= session.MinNotesLength {
		b.WriteString(successStyle.Render(counter))
	} else {
		b.WriteString(dimStyle.Render(counter))
	}
	b.WriteString("\n")
	b.WriteString(m.category.View())
	b.WriteString("\n")
	if m.manager.Loading() {
		b.WriteString("Generating...\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderSavedHeader() string {
	label := session.AllCategoriesLabel
	if f := m.manager.Filter(); f != "" {
		label = f
	}
	header := fmt.Sprintf("Category: %s\n\n", label)
	if len(m.cards()) == 0 {
		header += dimStyle.Render("No saved flashcards yet. Generate some and save them!") + "\n"
	}
	return header
}

func (m *Model) renderCards() string {
	cards := m.cards()
	rendered := make([]string, 0, len(cards))
	for i, card := range cards {
		rendered = append(rendered, m.renderCard(card, i == m.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m *Model) renderCard(card models.Flashcard, focused bool) string {
	style := cardStyle
	if focused {
		style = focusedCardStyle
	}

	if !m.flipped[card.Token] {
		return style.Render(card.Question + "\n" + dimStyle.Render("space to reveal answer"))
	}

	status := "[s] save"
	if card.Saved {
		status = successStyle.Render("✓ Saved")
	}
	if card.HasID() {
		status += "  [d] delete"
	}
	return style.Render(fmt.Sprintf("%s\n%s\n%s", card.Answer, dimStyle.Render("Category: "+card.Category), status))
}

func (m *Model) help() string {
	switch m.mode {
	case notesMode, categoryMode:
		return "ctrl+g generate • ctrl+o notes/category • esc done"
	case confirmMode:
		return session.DeletePrompt + " (y/n)"
	}
	if m.manager.View() == session.SavedView {
		return "j/k move • space flip • c category • d delete • tab generator • q quit"
	}
	return "i edit notes • j/k move • space flip • s save • a save all • d delete • tab saved • q quit"
}
