package phases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
)

type workflowsPromptData struct {
	WorkflowName        string
	EntryPoints         []string
	ArchitectureSummary string
	RelevantFiles       []childRef
}

// Workflow is a single end-to-end scenario the Workflows phase documents,
// e.g. "HTTP request handling" or "generation run lifecycle". The
// orchestrator derives the candidate list from the synthesis map's entry
// points before calling this phase.
type Workflow struct {
	Name          string
	EntryPoints   []string
	RelevantFiles []core.FileSummary
}

// Workflows runs the Workflows phase (C8) for one identified workflow,
// consuming the synthesis map's entry points and the already-rendered
// architecture page for context, per the same dependency ordering as the
// Overview phase.
func Workflows(ctx context.Context, d *Deps, wf Workflow, architectureContent string) (*core.GeneratedPage, error) {
	data := workflowsPromptData{
		WorkflowName:        wf.Name,
		EntryPoints:         wf.EntryPoints,
		ArchitectureSummary: architectureContent,
	}
	for _, f := range wf.RelevantFiles {
		data.RelevantFiles = append(data.RelevantFiles, childRef{Path: f.Path, Purpose: f.Purpose})
	}

	content, err := d.generate(ctx, llmadapt.WorkflowsPrompt, data)
	if err != nil {
		return nil, fmt.Errorf("workflows phase (%s): %w", wf.Name, err)
	}

	return &core.GeneratedPage{
		Kind:        core.PageKindWorkflow,
		Target:      wf.Name,
		Slug:        llmadapt.Slug(strings.ReplaceAll(wf.Name, " ", "-")),
		Content:     content,
		WordCount:   core.WordCount(content),
		GeneratedAt: time.Now(),
	}, nil
}
