package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sevigo/wikigen/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the progress/read-only HTTP surface and async generation worker pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		application, cleanup, err := app.NewApp(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer cleanup()

		go func() {
			if err := application.Start(); err != nil {
				logger.Error("server error", "error", err)
				cancel()
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			logger.Info("received shutdown signal")
		case <-ctx.Done():
			logger.Info("context cancelled, shutting down")
		}

		if err := application.Stop(); err != nil {
			return fmt.Errorf("failed to stop application cleanly: %w", err)
		}
		return nil
	},
}
