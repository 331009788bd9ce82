package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"reportwidgets/internal/fetchers"
	"reportwidgets/internal/logger"
	"reportwidgets/internal/server"
	"reportwidgets/internal/storage"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve published reports for preview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := storage.NewStorageClient(ctx, cfg)
		if err != nil {
			return err
		}

		builder, err := newBuilder(fetchers.NewDataFetcher(cfg.HTTPTimeout))
		if err != nil {
			return err
		}

		srv := server.NewServer(cfg, store, builder)
		defer srv.Close()

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv.SetupRoutes(),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server listening", map[string]interface{}{
				"port":        cfg.Port,
				"storage":     cfg.StorageBackend,
				"environment": cfg.Environment,
			})
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("Server stopped")
		return nil
	},
}
