package phases

import (
	"context"
	"strings"
	"time"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/summary"
)

type childRef struct {
	Path    string
	Purpose string
}

type directorySummaryPromptData struct {
	Path                    string
	ChildSummaries          []childRef
	ChildDirectorySummaries []childRef
	CustomInstructions      []string
	Notes                   []string
}

// Directories runs the Directories phase (C8) for a single directory,
// synthesizing its wiki page and architectural metadata from its direct
// children's already-generated summaries. Signature is computed by the
// caller (non-recursively, over direct children only) before this is
// invoked, so invalidation can short-circuit without calling the model.
// The delimited metadata block is extracted into the DirectorySummary and
// the remaining markdown becomes the directory's page; a response with no
// extractable block is downgraded to a fallback summary with the whole
// response kept as page content, never a phase failure. notes holds
// developer corrections targeting this directory.
func Directories(ctx context.Context, d *Deps, dirPath string, signature string, children []string, childFiles []core.FileSummary, childDirs []core.DirectorySummary, customInstructions []string, notes []string) (*core.GeneratedPage, *core.DirectorySummary, error) {
	data := directorySummaryPromptData{
		Path:               dirPath,
		CustomInstructions: customInstructions,
		Notes:              notes,
	}
	for _, f := range childFiles {
		data.ChildSummaries = append(data.ChildSummaries, childRef{Path: f.Path, Purpose: f.Purpose})
	}
	for _, sub := range childDirs {
		data.ChildDirectorySummaries = append(data.ChildDirectorySummaries, childRef{Path: sub.Path, Purpose: sub.Purpose})
	}

	raw, err := d.generate(ctx, llmadapt.DirectorySummaryPrompt, data)
	if err != nil {
		return nil, nil, err
	}

	parsed, body, err := summary.ParseDirectory(raw)
	if err != nil {
		d.logger().Warn("malformed directory summary output, using fallback", "directory", dirPath, "error", err)
		parsed = &summary.Directory{Purpose: "Unknown", Layer: "utility"}
	}
	if strings.TrimSpace(body) == "" {
		body = parsed.Purpose
	}

	now := time.Now()
	page := &core.GeneratedPage{
		Kind:        core.PageKindDirectory,
		Target:      dirPath,
		Slug:        llmadapt.Slug(dirPath),
		Content:     body,
		WordCount:   core.WordCount(body),
		SourceHash:  signature,
		GeneratedAt: now,
	}
	dirSummary := &core.DirectorySummary{
		Path:        dirPath,
		Signature:   signature,
		Purpose:     parsed.Purpose,
		Layer:       parsed.Layer,
		Children:    children,
		GeneratedAt: now,
	}
	return page, dirSummary, nil
}
