package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/wikigen/internal/app"
	"github.com/sevigo/wikigen/internal/orchestrate"
)

var forceGenerate bool

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate (or incrementally regenerate) the wiki for a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve repository path: %w", err)
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		application, cleanup, err := app.NewApp(context.Background(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer cleanup()

		stopProgress := printProgress(application.Progress)
		run, runErr := application.Orchestrator.Run(cmd.Context(), root, forceGenerate)
		stopProgress()
		if runErr != nil {
			color.Red("generation failed: %v", runErr)
			return runErr
		}

		color.Green("generation run %d completed with status %s", run.ID, run.Status)
		return nil
	},
}

// printProgress relays the orchestrator's coalesced progress events to the
// terminal until the returned stop func is called.
func printProgress(broker *orchestrate.ProgressBroker) func() {
	events, cancel := broker.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)

	phaseColor := color.New(color.FgCyan, color.Bold)
	go func() {
		defer wg.Done()
		for ev := range events {
			if ev.TotalSteps > 0 && ev.Step > 0 {
				fmt.Printf("  [%s] %d/%d %s\n", phaseColor.Sprint(ev.Phase), ev.Step, ev.TotalSteps, ev.Message)
				continue
			}
			fmt.Printf("  [%s] %s\n", phaseColor.Sprint(ev.Phase), ev.Message)
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

func init() {
	generateCmd.Flags().BoolVar(&forceGenerate, "force", false, "regenerate every file and directory regardless of content hash")
}
