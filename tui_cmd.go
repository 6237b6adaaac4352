package main

import (
	"io"
	"log/slog"

	"github.com/andrewpaige1/studybuddy/session"
	"github.com/andrewpaige1/studybuddy/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Review flashcards in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines would tear the alt screen.
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		manager := session.NewManager(newBackendClient(), session.WithLogger(logger))

		model := tui.NewModel(cmd.Context(), manager)
		p := tea.NewProgram(&model, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
