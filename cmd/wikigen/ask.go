package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/wikigen/internal/app"
	"github.com/sevigo/wikigen/internal/index"
)

var askCmd = &cobra.Command{
	Use:   "ask [path] [question]",
	Short: "Ask a grounded question about an already-generated repository",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve repository path: %w", err)
		}
		question := strings.Join(args[1:], " ")

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		application, cleanup, err := app.NewApp(context.Background(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer cleanup()

		repo, err := application.Store.GetOrCreateRepository(cmd.Context(), root)
		if err != nil {
			return fmt.Errorf("failed to resolve repository: %w", err)
		}
		collection := index.CollectionName(root, cfg.AI.EmbedderModel)

		metaDir := filepath.Join(root, cfg.Storage.WikiPath, "meta")
		if warning, werr := index.CheckEmbeddingMetadata(metaDir, cfg.AI.EmbedderProvider, cfg.AI.EmbedderModel); werr == nil && warning != "" {
			color.Yellow("warning: %s", warning)
		}

		answer, err := application.QA.Answer(cmd.Context(), repo.ID, collection, question, nil)
		if err != nil {
			return fmt.Errorf("could not answer question: %w", err)
		}

		fmt.Println(answer.Text)
		if answer.Disclaimer != "" {
			fmt.Printf("\n[%s confidence] %s\n", answer.Confidence, answer.Disclaimer)
		}
		for _, c := range answer.Citations {
			fmt.Printf("  - %s:%d-%d\n", c.Path, c.LineStart, c.LineEnd)
		}
		return nil
	},
}
