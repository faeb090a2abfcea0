// Package synth builds the Synthesis Map (C9): the cross-cutting
// architecture model assembled from the Files and Directories phases'
// output once both complete, and the token-budget batching logic used to
// keep later phases' prompts under the configured context window.
package synth

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/summary"
)

// generator is the slice of phases.Deps the synthesis builder needs: render
// a prompt, call the model, run it through the firewall. Accepting the
// interface rather than *phases.Deps keeps this package decoupled from the
// phases package's wiring.
type generator interface {
	Generate(ctx context.Context, key llmadapt.PromptKey, data any) (string, error)
}

// item is one summary (file or directory) in batching order.
type item struct {
	isDir   bool
	path    string
	layer   string
	purpose string
}

func (it item) text() string {
	return it.path + " " + it.layer + " " + it.purpose
}

// Build assembles a SynthesisMap from the Files and Directories phases'
// output. The layer grouping (step 1) is pure and always succeeds; the
// key_components/dependency_graph/project_summary fields come from an LLM
// call that is batched whenever the combined input exceeds contextLimit
// estimated tokens, per the token-budgeted batching algorithm in §4.7. A
// batch whose LLM call fails keeps its algorithmic layer grouping and
// contributes nothing else; the error is logged, never swallowed silently.
func Build(ctx context.Context, gen generator, estimator *llmadapt.TokenEstimator, contextLimit int, dirs []core.DirectorySummary, files []core.FileSummary, analyses map[string]*core.AnalysisResult, logger *slog.Logger) *core.SynthesisMap {
	if logger == nil {
		logger = slog.Default()
	}

	m := &core.SynthesisMap{
		Layers:          make(map[string]*core.LayerInfo),
		DependencyGraph: make(map[string][]string),
	}

	dirLayer := assignDirectoryLayers(dirs, files)
	applyLayers(m, files, dirs, dirLayer)

	m.EntryPoints = entryPoints(files, analyses)

	items := toItems(files, dirs, dirLayer)
	batches := batchItems(estimator, items, contextLimit)

	var results []*summary.Synthesis
	for i, batch := range batches {
		raw, err := gen.Generate(ctx, llmadapt.SynthesisPrompt, synthesisPromptData(batch))
		if err != nil {
			logger.Warn("synthesis LLM call failed, keeping algorithmic layer grouping for this batch", "batch", i, "error", err)
			continue
		}
		parsed, err := summary.ParseSynthesis(raw)
		if err != nil {
			logger.Warn("malformed synthesis response, keeping algorithmic layer grouping for this batch", "batch", i, "error", err)
			continue
		}
		results = append(results, parsed)
	}

	mergeSynthesis(m, results)
	return m
}

// assignDirectoryLayers derives each directory's layer by majority vote
// over its direct child files' layers, falling back to the directory's own
// Directories-phase layer classification when it has no file children.
func assignDirectoryLayers(dirs []core.DirectorySummary, files []core.FileSummary) map[string]string {
	votes := make(map[string]map[string]int)
	for _, f := range files {
		dir := dirOf(f.Path)
		if votes[dir] == nil {
			votes[dir] = make(map[string]int)
		}
		votes[dir][string(f.Layer)]++
	}

	out := make(map[string]string, len(dirs))
	for _, d := range dirs {
		if counts, ok := votes[d.Path]; ok && len(counts) > 0 {
			out[d.Path] = topVote(counts)
			continue
		}
		out[d.Path] = string(core.CoerceLayer(d.Layer))
	}
	return out
}

func topVote(counts map[string]int) string {
	best, bestN := "", -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic tie-break
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

// applyLayers populates m.Layers deterministically: every file contributes
// to exactly one layer bucket, and each directory is added to the bucket
// its assigned layer maps to.
func applyLayers(m *core.SynthesisMap, files []core.FileSummary, dirs []core.DirectorySummary, dirLayer map[string]string) {
	dirs = append([]core.DirectorySummary(nil), dirs...)
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })

	for _, f := range files {
		layer := string(core.CoerceLayer(string(f.Layer)))
		bucket := m.Layers[layer]
		if bucket == nil {
			bucket = &core.LayerInfo{}
			m.Layers[layer] = bucket
		}
		bucket.Files = append(bucket.Files, f.Path)
	}
	for _, d := range dirs {
		layer := dirLayer[d.Path]
		bucket := m.Layers[layer]
		if bucket == nil {
			bucket = &core.LayerInfo{}
			m.Layers[layer] = bucket
		}
		bucket.Directories = append(bucket.Directories, d.Path)
		if bucket.Purpose == "" {
			bucket.Purpose = d.Purpose
		}
	}
	for _, bucket := range m.Layers {
		sort.Strings(bucket.Files)
		sort.Strings(bucket.Directories)
	}
}

func toItems(files []core.FileSummary, dirs []core.DirectorySummary, dirLayer map[string]string) []item {
	items := make([]item, 0, len(files)+len(dirs))
	for _, f := range files {
		items = append(items, item{path: f.Path, layer: string(core.CoerceLayer(string(f.Layer))), purpose: f.Purpose})
	}
	for _, d := range dirs {
		items = append(items, item{isDir: true, path: d.Path, layer: dirLayer[d.Path], purpose: d.Purpose})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].path < items[j].path })
	return items
}

// batchItems groups items so each batch's estimated token count stays
// within budget, starting a new batch whenever the next item would exceed
// it. A single item over budget on its own still gets its own batch rather
// than being dropped. budget <= 0 disables batching (a single batch).
func batchItems(estimator *llmadapt.TokenEstimator, items []item, budget int) [][]item {
	if budget <= 0 || len(items) == 0 {
		if len(items) == 0 {
			return nil
		}
		return [][]item{items}
	}

	var batches [][]item
	var current []item
	currentTokens := 0

	for _, it := range items {
		tokens := estimator.EstimateTokens(context.Background(), "", it.text())
		if len(current) > 0 && currentTokens+tokens > budget {
			batches = append(batches, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, it)
		currentTokens += tokens
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

type synthesisFileRef struct {
	Path    string
	Layer   string
	Purpose string
}

type synthesisPromptFields struct {
	Files       []synthesisFileRef
	Directories []synthesisFileRef
}

func synthesisPromptData(batch []item) synthesisPromptFields {
	var data synthesisPromptFields
	for _, it := range batch {
		ref := synthesisFileRef{Path: it.path, Layer: it.layer, Purpose: it.purpose}
		if it.isDir {
			data.Directories = append(data.Directories, ref)
		} else {
			data.Files = append(data.Files, ref)
		}
	}
	return data
}

// mergeSynthesis folds every batch's parsed LLM output into m:
// key_components dedup by name (first occurrence wins), dependency_graph
// edges union per layer, project_summary keeps the longest non-empty
// candidate. Called with a nil/empty results slice, m is left with only
// its already-populated algorithmic layer grouping.
func mergeSynthesis(m *core.SynthesisMap, results []*summary.Synthesis) {
	seenComponent := make(map[string]bool)
	depSeen := make(map[string]map[string]bool)

	for _, r := range results {
		for _, c := range r.KeyComponents {
			if c.Name == "" || seenComponent[c.Name] {
				continue
			}
			seenComponent[c.Name] = true
			m.KeyComponents = append(m.KeyComponents, core.KeyComponent{
				Name: c.Name, File: c.File, Role: c.Role, Layer: c.Layer,
			})
		}
		for layer, deps := range r.DependencyGraph {
			if depSeen[layer] == nil {
				depSeen[layer] = make(map[string]bool)
			}
			for _, dep := range deps {
				depSeen[layer][dep] = true
			}
		}
		if len(r.ProjectSummary) > len(m.ProjectSummary) {
			m.ProjectSummary = r.ProjectSummary
		}
	}

	for layer, deps := range depSeen {
		list := make([]string, 0, len(deps))
		for d := range deps {
			list = append(list, d)
		}
		sort.Strings(list)
		m.DependencyGraph[layer] = list
	}
}

// entryPoints identifies files that look like process/command entry
// points: a func main() in a file under a cmd/ directory. A main package
// outside a cmd/ directory is not detected.
func entryPoints(files []core.FileSummary, analyses map[string]*core.AnalysisResult) []string {
	var out []string
	for _, f := range files {
		analysis := analyses[f.Path]
		if analysis == nil {
			continue
		}
		if strings.Contains(f.Path, "/cmd/") || strings.HasPrefix(f.Path, "cmd/") {
			for _, sym := range analysis.Symbols {
				if sym.Name == "main" && sym.Kind == "function" {
					out = append(out, f.Path)
					break
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

func dirOf(relPath string) string {
	d := path.Dir(relPath)
	if d == "." {
		return ""
	}
	return d
}

// Batch groups FileSummaries so each batch's estimated token count stays
// under budget, the token-budget batching strategy the Overview and
// Workflows phases use to keep their relevant-file context within the
// configured generation.context_token_budget. Any single item exceeding
// budget on its own still gets its own batch rather than being dropped.
func Batch(estimator *llmadapt.TokenEstimator, items []core.FileSummary, budget int) [][]core.FileSummary {
	if budget <= 0 {
		return [][]core.FileSummary{items}
	}

	var batches [][]core.FileSummary
	var current []core.FileSummary
	currentTokens := 0

	for _, it := range items {
		text := it.Purpose + strings.Join(it.Dependencies, " ") + it.Pitfalls
		tokens := estimator.EstimateTokens(context.Background(), "", text)

		if len(current) > 0 && currentTokens+tokens > budget {
			batches = append(batches, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, it)
		currentTokens += tokens
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}
