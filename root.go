package main

import (
	"log/slog"
	"os"

	"github.com/andrewpaige1/studybuddy/client"
	"github.com/andrewpaige1/studybuddy/config"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	backendURL string
	env        config.Environment
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "Turn study notes into flashcards",
	Long: `Study Buddy sends your notes to a question-generation backend,
lets you review and flip the resulting flashcards, and keeps the ones you save.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		env, err = config.Load()
		if err != nil {
			return err
		}
		if backendURL != "" {
			env.BackendURL = backendURL
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "Base URL of the study backend (overrides BACKEND_URL)")
}

func newBackendClient() *client.Client {
	return client.New(env.BackendURL, env.BackendTimeout)
}
