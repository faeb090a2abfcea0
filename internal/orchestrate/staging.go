package orchestrate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/index"
	"github.com/sevigo/wikigen/internal/synth"
)

// stagePages renders every page plus the run's metadata artifacts to a
// shadow directory (wikiDir + ".staging") so a reader never observes a
// half-written wiki: the directory is built in full, then swapped into
// place with a single promote call.
//
// Staged layout:
//
//	overview.md
//	architecture.md
//	workflows/<slug>.md
//	directories/<slug>.md
//	files/<slug>.md
//	meta/synthesis.json
//	meta/embedding_metadata.json
func stagePages(wikiDir string, pages []core.GeneratedPage, synthMap *core.SynthesisMap, embMeta *index.EmbeddingMetadata) (stagingDir string, err error) {
	stagingDir = wikiDir + ".staging"
	if err := os.RemoveAll(stagingDir); err != nil {
		return "", fmt.Errorf("failed to clear staging directory: %w", err)
	}
	for _, sub := range []string{"workflows", "directories", "files", "meta"} {
		if err := os.MkdirAll(filepath.Join(stagingDir, sub), 0o755); err != nil {
			return "", fmt.Errorf("failed to create staging directory: %w", err)
		}
	}

	for _, p := range pages {
		path := stagedPagePath(stagingDir, p)
		if err := os.WriteFile(path, []byte(p.Content), 0o644); err != nil {
			return "", fmt.Errorf("failed to stage page %s: %w", p.Target, err)
		}
	}

	if synthMap != nil {
		if err := synth.Save(filepath.Join(stagingDir, "meta", "synthesis.json"), synthMap); err != nil {
			return "", err
		}
	}
	if embMeta != nil {
		if err := index.WriteEmbeddingMetadata(filepath.Join(stagingDir, "meta"), *embMeta); err != nil {
			return "", err
		}
	}

	// The notes mirror is maintainer-authored, not generated: carry it into
	// the staged tree so the promotion swap never discards it.
	if err := copyDir(filepath.Join(wikiDir, "notes"), filepath.Join(stagingDir, "notes")); err != nil {
		return "", fmt.Errorf("failed to preserve notes directory: %w", err)
	}

	return stagingDir, nil
}

// copyDir copies src's regular files (one level deep) into dst. A missing
// src is not an error.
func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dst, e.Name()), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func stagedPagePath(stagingDir string, p core.GeneratedPage) string {
	switch p.Kind {
	case core.PageKindOverview:
		return filepath.Join(stagingDir, "overview.md")
	case core.PageKindArchitecture:
		return filepath.Join(stagingDir, "architecture.md")
	case core.PageKindWorkflow:
		return filepath.Join(stagingDir, "workflows", p.Slug+".md")
	case core.PageKindDirectory:
		return filepath.Join(stagingDir, "directories", p.Slug+".md")
	default:
		return filepath.Join(stagingDir, "files", p.Slug+".md")
	}
}

// promote atomically replaces the live wiki directory with the staged one.
// Both directories are expected to live on the same filesystem (they are
// siblings under the repository root), making the final rename atomic.
func promote(wikiDir, stagingDir string) error {
	previous := wikiDir + ".previous"
	_ = os.RemoveAll(previous)

	if _, err := os.Stat(wikiDir); err == nil {
		if err := os.Rename(wikiDir, previous); err != nil {
			return fmt.Errorf("failed to displace previous wiki directory: %w", err)
		}
	}

	if err := os.Rename(stagingDir, wikiDir); err != nil {
		// Best-effort rollback so a failed promotion doesn't leave the repo
		// with no wiki directory at all.
		_ = os.Rename(previous, wikiDir)
		return fmt.Errorf("failed to promote staged wiki directory: %w", err)
	}

	_ = os.RemoveAll(previous)
	return nil
}
