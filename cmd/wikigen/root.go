package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/wikigen/internal/config"
	"github.com/sevigo/wikigen/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "wikigen",
	Short: "wikigen generates a navigable wiki for a source repository",
	Long:  `wikigen scans a repository, summarizes it file by file and directory by directory, and builds a grounded Q&A engine over the result.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads configuration and validates it for CLI use.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ValidateForCLI(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewLogger(cfg.Logging, os.Stdout)
	slog.SetDefault(log)
	return cfg, log, nil
}
