package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrewpaige1/studybuddy/handlers"
	"github.com/andrewpaige1/studybuddy/middleware"
	"github.com/andrewpaige1/studybuddy/render"
	"github.com/andrewpaige1/studybuddy/session"
	"github.com/aretw0/lifecycle"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the flashcard web interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			env.Port = servePort
		}

		renderer, err := render.New()
		if err != nil {
			return err
		}
		backend := newBackendClient()
		registry := session.NewRegistry(func() *session.Manager {
			return session.NewManager(backend)
		}, env.SessionIdleTTL)

		mux := http.NewServeMux()
		ui := &handlers.UIHandler{
			Renderer: renderer,
			Sessions: middleware.SessionMiddleware(registry, env),
		}
		ui.Routes(mux)
		mux.Handle("GET /static/", render.StaticHandler())

		return listen(cmd.Context(), "0.0.0.0:"+env.Port, withCORS(middleware.RequestLogger(mux)), func(ctx context.Context) {
			lifecycle.Go(ctx, func(ctx context.Context) error {
				registry.Run(ctx, time.Minute)
				return nil
			}, lifecycle.WithErrorHandler(func(err error) {
				slog.Error("session sweeper stopped", "error", err)
			}))
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func withCORS(h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(h)
}

// listen serves h until SIGINT/SIGTERM. background is called once with the
// server's context and must not block.
func listen(parent context.Context, addr string, h http.Handler, background func(context.Context)) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if background != nil {
		background(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
