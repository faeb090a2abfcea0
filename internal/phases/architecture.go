package phases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
)

type architectureLayer struct {
	Name        string
	Files       []string
	Directories []string
}

type architecturePromptData struct {
	Layers          []architectureLayer
	KeyComponents   []core.KeyComponent
	DependencyGraph map[string][]string
	ProjectSummary  string
	EntryPoints     []string
}

// Architecture runs the Architecture phase (C8): it renders the synthesis
// map's layer assignments, key components, dependency graph and entry
// points into a single narrative page. Unlike Files/Directories, its output
// is free-form markdown with no structured sections to parse back out.
func Architecture(ctx context.Context, d *Deps, m *core.SynthesisMap) (*core.GeneratedPage, error) {
	layers := make([]architectureLayer, 0, len(m.Layers))
	for name, info := range m.Layers {
		layers = append(layers, architectureLayer{Name: name, Files: info.Files, Directories: info.Directories})
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].Name < layers[j].Name })

	data := architecturePromptData{
		Layers:          layers,
		KeyComponents:   m.KeyComponents,
		DependencyGraph: m.DependencyGraph,
		ProjectSummary:  m.ProjectSummary,
		EntryPoints:     m.EntryPoints,
	}

	content, err := d.generate(ctx, llmadapt.ArchitecturePrompt, data)
	if err != nil {
		return nil, fmt.Errorf("architecture phase: %w", err)
	}

	return &core.GeneratedPage{
		Kind:        core.PageKindArchitecture,
		Target:      "architecture",
		Slug:        "architecture",
		Content:     content,
		WordCount:   core.WordCount(content),
		GeneratedAt: time.Now(),
	}, nil
}
