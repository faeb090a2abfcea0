package phases

import (
	"context"
	"fmt"
	"time"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
)

type overviewPromptData struct {
	RepoRoot            string
	Branch              string
	HeadSHA             string
	ArchitectureSummary string
	TopLevelDirectories []childRef
}

// Overview runs the Overview phase (C8), the landing page of the generated
// wiki. It depends on the Architecture phase's rendered content plus the
// top-level directory summaries, so the orchestrator must schedule it after
// both Architecture and Directories complete.
func Overview(ctx context.Context, d *Deps, repo core.Repository, architectureContent string, topLevel []core.DirectorySummary) (*core.GeneratedPage, error) {
	data := overviewPromptData{
		RepoRoot:            repo.Root,
		Branch:              repo.Branch,
		HeadSHA:             repo.HeadSHA,
		ArchitectureSummary: architectureContent,
	}
	for _, dir := range topLevel {
		data.TopLevelDirectories = append(data.TopLevelDirectories, childRef{Path: dir.Path, Purpose: dir.Purpose})
	}

	content, err := d.generate(ctx, llmadapt.OverviewPrompt, data)
	if err != nil {
		return nil, fmt.Errorf("overview phase: %w", err)
	}

	return &core.GeneratedPage{
		Kind:        core.PageKindOverview,
		Target:      "overview",
		Slug:        "overview",
		Content:     content,
		WordCount:   core.WordCount(content),
		GeneratedAt: time.Now(),
	}, nil
}
