package main

import (
	"net/http"

	"github.com/andrewpaige1/studybuddy/config"
	"github.com/andrewpaige1/studybuddy/handlers"
	"github.com/andrewpaige1/studybuddy/middleware"
	"github.com/spf13/cobra"
)

var backendPort string

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the reference study backend API",
	Long: `Runs the five JSON endpoints the web interface talks to, backed by
sqlite (or postgres when DB_URL is a postgres:// URL). Generated questions
come from a fixed template set, so this is meant for development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backendPort != "" {
			env.BackendPort = backendPort
		}

		db, err := config.Connect(env.DatabaseURL)
		if err != nil {
			return err
		}

		mux := http.NewServeMux()
		(&handlers.DBHandler{DB: db, Questions: handlers.StubQuestions{}}).Routes(mux)

		return listen(cmd.Context(), "0.0.0.0:"+env.BackendPort, withCORS(middleware.RequestLogger(mux)), nil)
	},
}

func init() {
	backendCmd.Flags().StringVar(&backendPort, "port", "", "Port to listen on (overrides BACKEND_PORT)")
	rootCmd.AddCommand(backendCmd)
}
