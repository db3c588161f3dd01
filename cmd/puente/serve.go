package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"puente-backend/internal/bootstrap"
	"puente-backend/internal/shared/server"
)

const (
	sweepInterval     = 10 * time.Minute
	workspaceIdleTTL  = 12 * time.Hour
	shutdownGraceTime = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := bootstrap.Build(ctx, cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		go app.Workspaces.RunSweeper(ctx, sweepInterval, workspaceIdleTTL)

		srv := &http.Server{
			Addr:              server.Addr(cfg.Port),
			Handler:           app.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			log.Printf("Starting API server on %s (generator=%s, prefs=%s)", srv.Addr, cfg.Generator, cfg.PrefsStore)
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

		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGraceTime)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
