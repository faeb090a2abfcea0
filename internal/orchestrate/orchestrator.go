// Package orchestrate implements the pipeline driver (C10): it sequences
// the 8 generation phases over a repository, holds a per-repository lock
// for the run's duration, persists crash/resume state after every phase,
// and atomically promotes the rendered wiki mirror only once everything
// upstream has succeeded.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/goframe/schema"

	"github.com/sevigo/wikigen/internal/config"
	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/index"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/metrics"
	"github.com/sevigo/wikigen/internal/parse"
	"github.com/sevigo/wikigen/internal/phases"
	"github.com/sevigo/wikigen/internal/scan"
	"github.com/sevigo/wikigen/internal/storage"
	"github.com/sevigo/wikigen/internal/synth"
)

// Orchestrator wires together the scanner, parser, phase generators,
// synthesis builder, storage and vector index into the end-to-end
// generation pipeline.
type Orchestrator struct {
	Scanner          *scan.Scanner
	Parser           *parse.Registry
	PhaseDeps        *phases.Deps
	Store            storage.Store
	Pages            storage.PageStore
	Notes            storage.NotesStore
	Index            index.VectorIndex
	Estimator        *llmadapt.TokenEstimator
	Progress         *ProgressBroker
	Logger           *slog.Logger
	ParallelLimit    int
	WikiDirName      string // default ".wikigen"
	ContextBudget    int
	EmbedderProvider string
	EmbedderModel    string

	repoMux sync.Map // root -> *sync.Mutex, per-repository run serialization
}

// tryLock acquires the per-repository run lock without blocking. A second
// orchestrator racing for the same root is refused rather than queued, so
// an operator double-submitting a run gets an immediate error instead of
// an invisible backlog.
func (o *Orchestrator) tryLock(root string) (func(), bool) {
	val, _ := o.repoMux.LoadOrStore(root, &sync.Mutex{})
	mu := val.(*sync.Mutex)
	if !mu.TryLock() {
		return nil, false
	}
	return mu.Unlock, true
}

// Run executes the full pipeline for root. An interrupted previous run
// needs no special resume mode: its marker is surfaced, and the per-target
// hash comparisons make every phase skip whatever the interrupted run
// already committed. A concurrent run against the same root returns
// core.ErrRunInProgress.
func (o *Orchestrator) Run(ctx context.Context, root string, force bool) (*core.GenerationRun, error) {
	root = filepath.Clean(root)
	unlock, ok := o.tryLock(root)
	if !ok {
		return nil, core.ErrRunInProgress
	}
	defer unlock()

	wikiDir := filepath.Join(root, o.wikiDirName())

	repoRecord, err := o.Store.GetOrCreateRepository(ctx, root)
	if err != nil {
		return nil, err
	}

	m, err := readMarker(wikiDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume marker: %w", err)
	}
	if m != nil {
		// The lock we hold proves no live worker owns this marker; a
		// "running" marker means the previous process died mid-run.
		if m.Status == markerRunning {
			m.Status = markerIncomplete
			if werr := writeMarker(wikiDir, *m); werr != nil {
				o.Logger.Warn("failed to downgrade stale marker", "error", werr)
			}
		}
		o.Logger.Info("previous run was interrupted, already-generated pages will be reused",
			"repo", root, "last_completed_phase", m.LastPhase)
	}

	run, err := o.Store.CreateGenerationRun(ctx, repoRecord.ID)
	if err != nil {
		return nil, err
	}
	run.Status = string(core.RunInProgress)
	if err := o.Store.UpdateGenerationRun(ctx, run); err != nil {
		return nil, err
	}

	runErr := o.runPhases(ctx, root, wikiDir, repoRecord, run, force)

	if runErr != nil {
		run.Status = string(core.RunFailed)
		run.Error = runErr.Error()
		_ = o.Store.UpdateGenerationRun(ctx, run)
		// Leave the staging area and marker intact so the next run can
		// resume; only the marker status changes.
		if werr := writeMarker(wikiDir, marker{RunID: run.ID, Status: markerIncomplete, LastPhase: core.Phase(run.LastPhase), UpdatedAt: time.Now()}); werr != nil {
			o.Logger.Warn("failed to mark interrupted run", "error", werr)
		}
		return nil, runErr
	}

	run.Status = string(core.RunCompleted)
	run.LastPhase = string(core.PhaseIndexing)
	if err := o.Store.UpdateGenerationRun(ctx, run); err != nil {
		return nil, err
	}
	return toCoreRun(run, root), nil
}

func (o *Orchestrator) wikiDirName() string {
	if o.WikiDirName == "" {
		return ".wikigen"
	}
	return o.WikiDirName
}

// runState carries phase outputs forward through the pipeline, including
// the monotonic cascade flags the Synthesis and later phases key off.
type runState struct {
	scanResult  *scan.Result
	analyses    map[string]*core.AnalysisResult
	fileSums    map[string]core.FileSummary
	dirSums     map[string]core.DirectorySummary
	synthMap    *core.SynthesisMap
	pages       []core.GeneratedPage
	customInstr []string

	// filesRegenerated / dirsRegenerated count targets whose LLM call
	// actually ran this run. Both are fixed before Synthesis starts and
	// never reset, so the cascade decision is monotonic.
	filesRegenerated int
	dirsRegenerated  int
	// synthRegenerated is true when the SynthesisMap was rebuilt rather
	// than loaded from meta/synthesis.json; Architecture, Overview and
	// Workflows regenerate exactly when it is true.
	synthRegenerated bool
}

func (o *Orchestrator) runPhases(ctx context.Context, root, wikiDir string, repo *storage.RepositoryRecord, run *storage.GenerationRunRecord, force bool) error {
	st := &runState{
		analyses: make(map[string]*core.AnalysisResult),
		fileSums: make(map[string]core.FileSummary),
		dirSums:  make(map[string]core.DirectorySummary),
	}

	if repoCfg, err := config.LoadRepoConfig(root); err == nil {
		st.customInstr = repoCfg.CustomInstructions
	}

	for _, phase := range core.Phases {
		if err := ctx.Err(); err != nil {
			return err
		}

		o.Logger.Info("running phase", "phase", phase, "repo", root)
		started := time.Now()
		if err := o.runPhase(ctx, phase, root, wikiDir, repo, st, force); err != nil {
			return fmt.Errorf("phase %s failed: %w", phase, err)
		}
		metrics.PhaseDuration.WithLabelValues(string(phase)).Observe(time.Since(started).Seconds())

		run.LastPhase = string(phase)
		if err := o.Store.UpdateGenerationRun(ctx, run); err != nil {
			return err
		}
		if err := writeMarker(wikiDir, marker{RunID: run.ID, Status: markerRunning, LastPhase: phase, UpdatedAt: time.Now()}); err != nil {
			return fmt.Errorf("failed to persist resume marker: %w", err)
		}
	}

	embMeta := &index.EmbeddingMetadata{Provider: o.EmbedderProvider, Model: o.EmbedderModel, IndexedAt: time.Now()}
	stagingDir, err := stagePages(wikiDir, st.pages, st.synthMap, embMeta)
	if err != nil {
		return err
	}
	if err := promote(wikiDir, stagingDir); err != nil {
		return err
	}
	if err := removeMarker(wikiDir); err != nil {
		o.Logger.Warn("failed to remove resume marker after successful run", "error", err)
	}

	return nil
}

func (o *Orchestrator) runPhase(ctx context.Context, phase core.Phase, root, wikiDir string, repo *storage.RepositoryRecord, st *runState, force bool) error {
	switch phase {
	case core.PhaseAnalysis:
		return o.runAnalysis(ctx, root, repo, st, force)
	case core.PhaseFiles:
		return o.runFiles(ctx, root, repo, st, force)
	case core.PhaseDirectories:
		return o.runDirectories(ctx, repo, st, force)
	case core.PhaseSynthesis:
		return o.runSynthesis(ctx, wikiDir, st)
	case core.PhaseArchitecture:
		return o.runArchitecture(ctx, repo, st)
	case core.PhaseOverview:
		return o.runOverview(ctx, repo, st)
	case core.PhaseWorkflows:
		return o.runWorkflows(ctx, repo, st)
	case core.PhaseIndexing:
		return o.runIndexing(ctx, root, repo, st)
	default:
		return fmt.Errorf("unknown phase %q", phase)
	}
}

func (o *Orchestrator) runAnalysis(ctx context.Context, root string, repo *storage.RepositoryRecord, st *runState, force bool) error {
	result, err := o.Scanner.Scan(root, repo.HeadSHA, force)
	if err != nil {
		return err
	}
	st.scanResult = result

	progress := o.startPhase(core.PhaseAnalysis, len(result.Files), "analyzing repository")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelLimit())
	var mu sync.Mutex

	for _, f := range result.Files {
		f := f
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			analysis, err := o.Parser.Analyze(root, f.Path)
			if err != nil {
				o.Logger.Warn("failed to analyze file, skipping", "file", f.Path, "error", err)
				progress.item(f.Path)
				return nil
			}
			mu.Lock()
			st.analyses[f.Path] = analysis
			mu.Unlock()
			progress.item(f.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return o.Store.UpdateRepositoryHead(ctx, repo.ID, result.Repository.Branch, result.Repository.HeadSHA, result.Repository.HeadSubject, result.Repository.ScannedAt)
}

func (o *Orchestrator) runFiles(ctx context.Context, root string, repo *storage.RepositoryRecord, st *runState, force bool) error {
	stored, err := o.Store.GetFileSummaries(ctx, repo.ID)
	if err != nil {
		return err
	}
	storedPages, err := o.storedPagesByTarget(ctx, repo, core.PageKindFile)
	if err != nil {
		return err
	}
	notesByTarget, err := o.notesSnapshot(ctx, repo.ID, core.NoteScopeFile)
	if err != nil {
		o.Logger.Warn("failed to load file notes, proceeding without them", "error", err)
		notesByTarget = map[string][]storage.NoteRecord{}
	}

	progress := o.startPhase(core.PhaseFiles, len(st.scanResult.Files), "documenting files")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelLimit())
	var mu sync.Mutex

	for _, f := range st.scanResult.Files {
		f := f
		targetNotes := notesByTarget[f.Path]
		prev, hasPrev := stored[f.Path]
		prevPage, hasPage := storedPages[f.Path]
		hasNewNote := false
		if hasPrev {
			for _, n := range targetNotes {
				if n.CreatedAt.After(prev.GeneratedAt) {
					hasNewNote = true
					break
				}
			}
		}
		// The stored content hash is the regeneration authority: a file
		// reruns iff it has no page yet, its bytes changed, a newer note
		// targets it, or the operator forced a rebuild.
		if hasPrev && hasPage && !force && prev.ContentHash == f.ContentHash && !hasNewNote {
			mu.Lock()
			st.fileSums[f.Path] = core.FileSummary{
				Path: f.Path, ContentHash: prev.ContentHash, Purpose: prev.Purpose,
				Layer: core.Layer(prev.Layer), Pitfalls: prev.Pitfalls, GeneratedAt: prev.GeneratedAt,
			}
			st.pages = append(st.pages, pageFromRecord(prevPage))
			mu.Unlock()
			metrics.PagesSkipped.WithLabelValues(string(core.PhaseFiles)).Inc()
			progress.item(f.Path + " (unchanged)")
			continue
		}

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			analysis := st.analyses[f.Path]
			if analysis == nil {
				analysis = &core.AnalysisResult{Path: f.Path, Language: "plaintext"}
			}
			content, err := os.ReadFile(filepath.Join(root, f.Path))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", f.Path, err)
			}
			page, summary, err := phases.Files(gctx, o.PhaseDeps, f, analysis, string(content), st.customInstr, noteBodies(targetNotes))
			if err != nil {
				// A target that exhausted its retries is skipped rather than
				// blocking phase completion; auth failures and cancellations
				// abort the run.
				var callErr *llmadapt.CallError
				if errors.As(err, &callErr) && callErr.Retriable() {
					o.Logger.Warn("skipping file after retry exhaustion", "file", f.Path, "error", err)
					progress.item(f.Path + " (failed)")
					return nil
				}
				return err
			}
			if err := o.Store.UpsertFileSummary(gctx, repo.ID, *summary); err != nil {
				return err
			}
			mu.Lock()
			st.fileSums[f.Path] = *summary
			st.pages = append(st.pages, *page)
			st.filesRegenerated++
			mu.Unlock()
			metrics.PagesRegenerated.WithLabelValues(string(core.PhaseFiles)).Inc()
			progress.item(f.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if st.filesRegenerated == 0 {
		progress.done("all file pages unchanged")
	}

	if err := o.Pages.DeletePagesByTarget(ctx, repo.ID, core.PageKindFile, st.scanResult.Diff.Deleted); err != nil {
		return err
	}
	return o.Store.DeleteFileSummaries(ctx, repo.ID, st.scanResult.Diff.Deleted)
}

// storedPagesByTarget loads a kind's persisted pages keyed by target, so
// skip paths can re-stage the previous page content without an LLM call.
func (o *Orchestrator) storedPagesByTarget(ctx context.Context, repo *storage.RepositoryRecord, kind core.PageKind) (map[string]storage.PageRecord, error) {
	records, err := o.Pages.ListPages(ctx, repo.ID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored %s pages: %w", kind, err)
	}
	out := make(map[string]storage.PageRecord, len(records))
	for _, r := range records {
		out[r.Target] = r
	}
	return out, nil
}

func pageFromRecord(r storage.PageRecord) core.GeneratedPage {
	return core.GeneratedPage{
		ID: r.ID, Kind: core.PageKind(r.Kind), Target: r.Target, Slug: r.Slug,
		Content: r.Content, WordCount: r.WordCount,
		SourceHash: r.SourceHash, GeneratedAt: r.GeneratedAt,
	}
}

// notesSnapshot loads every note of the given scope for repositoryID once,
// grouped by target, giving the phase a consistent view for its duration
// (notes added mid-phase must not shift which pages regenerate this run).
func (o *Orchestrator) notesSnapshot(ctx context.Context, repositoryID int64, scope core.NoteScope) (map[string][]storage.NoteRecord, error) {
	if o.Notes == nil {
		return map[string][]storage.NoteRecord{}, nil
	}
	all, err := o.Notes.ListNotes(ctx, repositoryID)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]storage.NoteRecord)
	for _, n := range all {
		if core.NoteScope(n.Scope) != scope {
			continue
		}
		out[n.Target] = append(out[n.Target], n)
	}
	return out, nil
}

func noteBodies(notes []storage.NoteRecord) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Body)
	}
	return out
}

func (o *Orchestrator) runDirectories(ctx context.Context, repo *storage.RepositoryRecord, st *runState, force bool) error {
	storedDirs, err := o.Store.GetDirectorySummaries(ctx, repo.ID)
	if err != nil {
		return err
	}
	storedPages, err := o.storedPagesByTarget(ctx, repo, core.PageKindDirectory)
	if err != nil {
		return err
	}
	notesByTarget, err := o.notesSnapshot(ctx, repo.ID, core.NoteScopeDirectory)
	if err != nil {
		o.Logger.Warn("failed to load directory notes, proceeding without them", "error", err)
		notesByTarget = map[string][]storage.NoteRecord{}
	}

	fileHashes := make(map[string]string, len(st.fileSums))
	for p, f := range st.fileSums {
		fileHashes[p] = f.ContentHash
	}

	tree := buildTree(st.scanResult.Files)
	order := bottomUpOrder(tree)
	dirSignatures := make(map[string]string, len(tree))
	progress := o.startPhase(core.PhaseDirectories, len(order), "summarizing directories")

	for _, dirPath := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		node := tree[dirPath]
		sig := signature(node, fileHashes, dirSignatures)
		dirSignatures[dirPath] = sig

		targetNotes := notesByTarget[dirPath]
		prev, hasPrev := storedDirs[dirPath]
		prevPage, hasPage := storedPages[dirPath]
		hasNewNote := false
		for _, n := range targetNotes {
			if hasPrev && n.CreatedAt.After(prev.GeneratedAt) {
				hasNewNote = true
				break
			}
		}

		if hasPrev && hasPage && !force && prev.Signature == sig && !hasNewNote {
			var children []string
			children = append(children, node.childFiles...)
			children = append(children, node.childDirs...)
			st.dirSums[dirPath] = core.DirectorySummary{
				Path: dirPath, Signature: sig, Purpose: prev.Purpose,
				Layer: prev.Layer, Children: children, GeneratedAt: prev.GeneratedAt,
			}
			st.pages = append(st.pages, pageFromRecord(prevPage))
			metrics.PagesSkipped.WithLabelValues(string(core.PhaseDirectories)).Inc()
			progress.item(displayPath(dirPath) + " (unchanged)")
			continue
		}

		var childFileSums []core.FileSummary
		for _, p := range node.childFiles {
			childFileSums = append(childFileSums, st.fileSums[p])
		}
		var childDirSums []core.DirectorySummary
		for _, p := range node.childDirs {
			childDirSums = append(childDirSums, st.dirSums[p])
		}
		children := append(append([]string{}, node.childFiles...), node.childDirs...)

		page, summary, err := phases.Directories(ctx, o.PhaseDeps, displayPath(dirPath), sig, children, childFileSums, childDirSums, st.customInstr, noteBodies(targetNotes))
		if err != nil {
			var callErr *llmadapt.CallError
			if errors.As(err, &callErr) && callErr.Retriable() {
				o.Logger.Warn("skipping directory after retry exhaustion", "directory", displayPath(dirPath), "error", err)
				progress.item(displayPath(dirPath) + " (failed)")
				continue
			}
			return err
		}
		summary.Path = dirPath
		page.Target = dirPath
		if err := o.Store.UpsertDirectorySummary(ctx, repo.ID, *summary); err != nil {
			return err
		}
		st.dirSums[dirPath] = *summary
		st.pages = append(st.pages, *page)
		st.dirsRegenerated++
		metrics.PagesRegenerated.WithLabelValues(string(core.PhaseDirectories)).Inc()
		progress.item(displayPath(dirPath))
	}

	var deleted []string
	for p := range storedDirs {
		if _, ok := tree[p]; !ok {
			deleted = append(deleted, p)
		}
	}
	if err := o.Pages.DeletePagesByTarget(ctx, repo.ID, core.PageKindDirectory, deleted); err != nil {
		return err
	}
	return o.Store.DeleteDirectorySummaries(ctx, repo.ID, deleted)
}

// runSynthesis rebuilds the SynthesisMap iff any file or directory page
// regenerated this run, or no synthesis.json exists yet. Otherwise the
// persisted map is loaded unchanged, which in turn lets the Architecture,
// Overview and Workflows phases reuse their stored pages.
func (o *Orchestrator) runSynthesis(ctx context.Context, wikiDir string, st *runState) error {
	progress := o.startPhase(core.PhaseSynthesis, 1, "building synthesis map")
	synthPath := filepath.Join(wikiDir, "meta", "synthesis.json")

	if st.filesRegenerated == 0 && st.dirsRegenerated == 0 {
		m, err := synth.Load(synthPath)
		if err == nil {
			st.synthMap = m
			st.synthRegenerated = false
			progress.done("synthesis map unchanged, loaded from disk")
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			o.Logger.Warn("failed to load persisted synthesis map, rebuilding", "error", err)
		}
	}

	dirs := make([]core.DirectorySummary, 0, len(st.dirSums))
	for _, d := range st.dirSums {
		dirs = append(dirs, d)
	}
	files := make([]core.FileSummary, 0, len(st.fileSums))
	for _, f := range st.fileSums {
		files = append(files, f)
	}
	st.synthMap = synth.Build(ctx, o.PhaseDeps, o.Estimator, o.ContextBudget, dirs, files, st.analyses, o.Logger)
	st.synthMap.GeneratedAt = time.Now()
	st.synthRegenerated = true
	progress.done("synthesis map rebuilt")
	return nil
}

// loadStoredPages pulls a page kind's previously generated records into the
// run state so an unchanged run re-stages (and re-indexes) them without
// any LLM call.
func (o *Orchestrator) loadStoredPages(ctx context.Context, repo *storage.RepositoryRecord, st *runState, kind core.PageKind) error {
	records, err := o.Pages.ListPages(ctx, repo.ID, kind)
	if err != nil {
		return fmt.Errorf("failed to load stored %s pages: %w", kind, err)
	}
	for _, r := range records {
		st.pages = append(st.pages, pageFromRecord(r))
	}
	metrics.PagesSkipped.WithLabelValues(string(kind)).Add(float64(len(records)))
	return nil
}

func (o *Orchestrator) runArchitecture(ctx context.Context, repo *storage.RepositoryRecord, st *runState) error {
	progress := o.startPhase(core.PhaseArchitecture, 1, "describing architecture")
	if !st.synthRegenerated {
		progress.done("architecture unchanged")
		return o.loadStoredPages(ctx, repo, st, core.PageKindArchitecture)
	}

	page, err := phases.Architecture(ctx, o.PhaseDeps, st.synthMap)
	if err != nil {
		return err
	}
	st.pages = append(st.pages, *page)
	metrics.PagesRegenerated.WithLabelValues(string(core.PhaseArchitecture)).Inc()
	progress.done("architecture page generated")
	return nil
}

func (o *Orchestrator) runOverview(ctx context.Context, repo *storage.RepositoryRecord, st *runState) error {
	progress := o.startPhase(core.PhaseOverview, 1, "writing overview")
	if !st.synthRegenerated {
		progress.done("overview unchanged")
		return o.loadStoredPages(ctx, repo, st, core.PageKindOverview)
	}

	archContent := ""
	for _, p := range st.pages {
		if p.Kind == core.PageKindArchitecture {
			archContent = p.Content
		}
	}

	var topLevel []core.DirectorySummary
	for _, d := range st.dirSums {
		if dirOf(d.Path) == "" && d.Path != "" {
			topLevel = append(topLevel, d)
		}
	}

	page, err := phases.Overview(ctx, o.PhaseDeps, st.scanResult.Repository, archContent, topLevel)
	if err != nil {
		return err
	}
	st.pages = append(st.pages, *page)
	metrics.PagesRegenerated.WithLabelValues(string(core.PhaseOverview)).Inc()
	progress.done("overview page generated")
	return nil
}

func (o *Orchestrator) runWorkflows(ctx context.Context, repo *storage.RepositoryRecord, st *runState) error {
	progress := o.startPhase(core.PhaseWorkflows, 1, "documenting workflows")
	if !st.synthRegenerated {
		progress.done("workflows unchanged")
		return o.loadStoredPages(ctx, repo, st, core.PageKindWorkflow)
	}

	archContent := ""
	for _, p := range st.pages {
		if p.Kind == core.PageKindArchitecture {
			archContent = p.Content
		}
	}

	if len(st.synthMap.EntryPoints) == 0 {
		progress.done("no entry points identified, skipping workflows")
		return nil
	}

	batches := synth.Batch(o.Estimator, valuesOf(st.fileSums), o.ContextBudget)
	var relevant []core.FileSummary
	if len(batches) > 0 {
		relevant = batches[0]
	}

	wf := phases.Workflow{
		Name:          "main entry point workflow",
		EntryPoints:   st.synthMap.EntryPoints,
		RelevantFiles: relevant,
	}
	page, err := phases.Workflows(ctx, o.PhaseDeps, wf, archContent)
	if err != nil {
		return err
	}
	st.pages = append(st.pages, *page)
	metrics.PagesRegenerated.WithLabelValues(string(core.PhaseWorkflows)).Inc()
	progress.done("workflow page generated")
	return nil
}

// runIndexing persists every page accumulated by the earlier phases
// (file and directory pages enter st.pages as their phases complete) and
// rebuilds the vector index over them.
func (o *Orchestrator) runIndexing(ctx context.Context, root string, repo *storage.RepositoryRecord, st *runState) error {
	collection := index.CollectionName(root, o.EmbedderModel)

	progress := o.startPhase(core.PhaseIndexing, len(st.pages), "indexing wiki pages")

	// Rebuild from scratch so renamed or deleted pages never linger as
	// stale index entries.
	if err := o.Index.DropCollection(ctx, collection); err != nil {
		o.Logger.Warn("failed to clear vector collection before reindexing", "collection", collection, "error", err)
	}

	var docs []schema.Document
	for _, p := range st.pages {
		if _, err := o.Pages.UpsertPage(ctx, repo.ID, p); err != nil {
			return err
		}
		docs = append(docs, index.BuildDocuments(p, o.ContextBudget)...)
		progress.item(p.Slug)
	}

	return o.Index.IndexPages(ctx, collection, docs)
}

func (o *Orchestrator) parallelLimit() int {
	if o.ParallelLimit <= 0 {
		return 8
	}
	return o.ParallelLimit
}

func valuesOf(m map[string]core.FileSummary) []core.FileSummary {
	out := make([]core.FileSummary, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// displayPath renders the repository root directory as "root" rather than
// an empty string in generated prose and slugs.
func displayPath(p string) string {
	if p == "" {
		return "root"
	}
	return p
}

func toCoreRun(r *storage.GenerationRunRecord, root string) *core.GenerationRun {
	return &core.GenerationRun{
		ID: r.ID, RepoRoot: root, Status: core.RunStatus(r.Status),
		LastPhase: core.Phase(r.LastPhase), StartedAt: r.StartedAt, UpdatedAt: r.UpdatedAt, Error: r.Error,
	}
}
