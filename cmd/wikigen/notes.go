package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevigo/wikigen/internal/app"
	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/storage"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage the maintainer notes that drive the re-documentation loop",
}

var notesAddCmd = &cobra.Command{
	Use:   "add [path] [scope] [target] [body...]",
	Short: "Record a note. scope is one of file, directory, workflow, general",
	Args:  cobra.MinimumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve repository path: %w", err)
		}
		scope, target, body := args[1], args[2], strings.Join(args[3:], " ")

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

		note, err := application.Notes.AddNote(cmd.Context(), repo.ID, core.NoteScope(scope), target, body)
		if err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}

		if path, err := storage.WriteNoteFile(filepath.Join(root, cfg.Storage.WikiPath, "notes"), note); err != nil {
			logger.Warn("failed to mirror note to disk, database row is recorded", "error", err)
		} else {
			fmt.Printf("note mirrored to %s\n", path)
		}

		fmt.Printf("note %d recorded for %s\n", note.ID, root)
		return nil
	},
}

var notesListCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List every note recorded for a repository",
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

		repo, err := application.Store.GetOrCreateRepository(cmd.Context(), root)
		if err != nil {
			return fmt.Errorf("failed to resolve repository: %w", err)
		}

		notes, err := application.Notes.ListNotes(cmd.Context(), repo.ID)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}

		for _, n := range notes {
			fmt.Printf("[%s] %s: %s\n", n.Scope, n.Target, n.Body)
		}
		return nil
	},
}

func init() {
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesListCmd)
}
