package orchestrate

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/parse"
	"github.com/sevigo/wikigen/internal/phases"
	"github.com/sevigo/wikigen/internal/scan"
	"github.com/sevigo/wikigen/internal/storage"
	"github.com/sevigo/wikigen/mocks"
)

// scriptedCaller answers each phase's prompt with a canned, well-formed
// response, keyed off the prompt's opening instruction line, and records
// every prompt it saw so tests can assert which phases actually called the
// model.
type scriptedCaller struct {
	mu      sync.Mutex
	prompts []string
}

func (c *scriptedCaller) Call(_ context.Context, prompt string, _ time.Duration) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	switch {
	case strings.HasPrefix(prompt, "You are documenting a single source file"):
		return "---\n" +
			"purpose: Parses input records into typed events.\n" +
			"layer: domain\n" +
			"dependencies:\n  - os\n" +
			"pitfalls: None worth noting.\n" +
			"---\n" +
			"# File documentation\n\nParses input records into typed events.\n\n## Key abstractions\n\nThe parse function normalizes each record.\n", nil
	case strings.HasPrefix(prompt, "You are documenting a directory"):
		return "---\n" +
			"purpose: Holds the source modules of the tool.\n" +
			"layer: domain\n" +
			"---\n" +
			"# Directory documentation\n\nHolds the source modules of the tool.\n", nil
	case strings.Contains(prompt, "codebase-wide architectural synthesis"):
		return "```json\n" +
			`{"key_components":[{"name":"RecordParser","file":"src/a.py","role":"parses input","layer":"domain"}],` +
			`"dependency_graph":{"domain":[]},"project_summary":"A small record-parsing tool."}` +
			"\n```", nil
	case strings.Contains(prompt, "architecture page"):
		return "# Architecture\n\nOne domain layer.\n", nil
	case strings.Contains(prompt, "landing page"):
		return "# Overview\n\nWelcome to the wiki.\n", nil
	default:
		return "# ANSWER\nnot applicable\n# CITATIONS\n", nil
	}
}

func (c *scriptedCaller) count(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.prompts {
		if strings.Contains(p, prefix) {
			n++
		}
	}
	return n
}

func (c *scriptedCaller) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

// pipelineFixture is a fully wired orchestrator over a temp repository,
// with gomock-backed stores holding state in memory so consecutive runs
// observe each other's persisted summaries and pages.
type pipelineFixture struct {
	orch   *Orchestrator
	caller *scriptedCaller
	root   string

	mu    sync.Mutex
	notes []storage.NoteRecord
}

func (fx *pipelineFixture) addNote(scope core.NoteScope, target, body string, createdAt time.Time) {
	fx.mu.Lock()
	defer fx.mu.Unlock()
	fx.notes = append(fx.notes, storage.NoteRecord{
		ID: int64(len(fx.notes) + 1), RepositoryID: 1,
		Scope: string(scope), Target: target, Body: body, CreatedAt: createdAt,
	})
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.py"), []byte("def parse(record):\n    return record\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "b.py"), []byte("def emit(event):\n    print(event)\n"), 0o644))

	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	pages := mocks.NewMockPageStore(ctrl)
	notes := mocks.NewMockNotesStore(ctrl)
	vectorIndex := mocks.NewMockVectorIndex(ctrl)

	fileRecords := map[string]storage.FileSummaryRecord{}
	dirRecords := map[string]storage.DirectorySummaryRecord{}
	pageRecords := map[string]storage.PageRecord{}
	var stateMu sync.Mutex
	var nextRunID int64

	store.EXPECT().GetOrCreateRepository(gomock.Any(), gomock.Any()).
		Return(&storage.RepositoryRecord{ID: 1}, nil).AnyTimes()
	store.EXPECT().UpdateRepositoryHead(gomock.Any(), int64(1), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).AnyTimes()
	store.EXPECT().CreateGenerationRun(gomock.Any(), int64(1)).
		DoAndReturn(func(context.Context, int64) (*storage.GenerationRunRecord, error) {
			stateMu.Lock()
			defer stateMu.Unlock()
			nextRunID++
			return &storage.GenerationRunRecord{ID: nextRunID, RepositoryID: 1, StartedAt: time.Now()}, nil
		}).AnyTimes()
	store.EXPECT().UpdateGenerationRun(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	store.EXPECT().GetFileSummaries(gomock.Any(), int64(1)).
		DoAndReturn(func(context.Context, int64) (map[string]storage.FileSummaryRecord, error) {
			stateMu.Lock()
			defer stateMu.Unlock()
			out := make(map[string]storage.FileSummaryRecord, len(fileRecords))
			for k, v := range fileRecords {
				out[k] = v
			}
			return out, nil
		}).AnyTimes()
	store.EXPECT().UpsertFileSummary(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, s core.FileSummary) error {
			stateMu.Lock()
			defer stateMu.Unlock()
			fileRecords[s.Path] = storage.FileSummaryRecord{
				RepositoryID: 1, Path: s.Path, ContentHash: s.ContentHash,
				Purpose: s.Purpose, Layer: string(s.Layer), Pitfalls: s.Pitfalls, GeneratedAt: s.GeneratedAt,
			}
			return nil
		}).AnyTimes()
	store.EXPECT().DeleteFileSummaries(gomock.Any(), int64(1), gomock.Any()).Return(nil).AnyTimes()

	store.EXPECT().GetDirectorySummaries(gomock.Any(), int64(1)).
		DoAndReturn(func(context.Context, int64) (map[string]storage.DirectorySummaryRecord, error) {
			stateMu.Lock()
			defer stateMu.Unlock()
			out := make(map[string]storage.DirectorySummaryRecord, len(dirRecords))
			for k, v := range dirRecords {
				out[k] = v
			}
			return out, nil
		}).AnyTimes()
	store.EXPECT().UpsertDirectorySummary(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, s core.DirectorySummary) error {
			stateMu.Lock()
			defer stateMu.Unlock()
			dirRecords[s.Path] = storage.DirectorySummaryRecord{
				RepositoryID: 1, Path: s.Path, Signature: s.Signature,
				Purpose: s.Purpose, Layer: s.Layer, GeneratedAt: s.GeneratedAt,
			}
			return nil
		}).AnyTimes()
	store.EXPECT().DeleteDirectorySummaries(gomock.Any(), int64(1), gomock.Any()).Return(nil).AnyTimes()

	pages.EXPECT().UpsertPage(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, p core.GeneratedPage) (int64, error) {
			stateMu.Lock()
			defer stateMu.Unlock()
			pageRecords[string(p.Kind)+"/"+p.Target] = storage.PageRecord{
				RepositoryID: 1, Kind: string(p.Kind), Target: p.Target, Slug: p.Slug,
				Content: p.Content, SourceHash: p.SourceHash, GeneratedAt: p.GeneratedAt,
			}
			return 1, nil
		}).AnyTimes()
	pages.EXPECT().DeletePagesByTarget(gomock.Any(), int64(1), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	pages.EXPECT().ListPages(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, kind core.PageKind) ([]storage.PageRecord, error) {
			stateMu.Lock()
			defer stateMu.Unlock()
			var out []storage.PageRecord
			for _, p := range pageRecords {
				if p.Kind == string(kind) {
					out = append(out, p)
				}
			}
			return out, nil
		}).AnyTimes()

	fx := &pipelineFixture{}
	notes.EXPECT().ListNotes(gomock.Any(), int64(1)).
		DoAndReturn(func(context.Context, int64) ([]storage.NoteRecord, error) {
			fx.mu.Lock()
			defer fx.mu.Unlock()
			return append([]storage.NoteRecord(nil), fx.notes...), nil
		}).AnyTimes()

	vectorIndex.EXPECT().DropCollection(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	vectorIndex.EXPECT().IndexPages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	promptMgr, err := llmadapt.NewPromptManager()
	require.NoError(t, err)
	caller := &scriptedCaller{}

	orch := &Orchestrator{
		Scanner: scan.New(logger, 0),
		Parser:  parse.New(nil, logger),
		PhaseDeps: &phases.Deps{
			Client:   caller,
			Prompts:  promptMgr,
			Firewall: llmadapt.NewFirewall(0.01),
			Provider: llmadapt.DefaultProvider,
			Timeout:  time.Minute,
			Logger:   logger,
		},
		Store:         store,
		Pages:         pages,
		Notes:         notes,
		Index:         vectorIndex,
		Estimator:     llmadapt.NewTokenEstimator(nil, 0.25, 50),
		Logger:        logger,
		ParallelLimit: 2,
		ContextBudget: 100_000,
		EmbedderModel: "nomic-embed-text",
	}

	fx.orch = orch
	fx.caller = caller
	fx.root = root
	return fx
}

func TestRun_ColdRunGeneratesFullWiki(t *testing.T) {
	fx := newPipelineFixture(t)

	run, err := fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)
	assert.Equal(t, core.RunCompleted, run.Status)

	assert.Equal(t, 2, fx.caller.count("You are documenting a single source file"))
	assert.Equal(t, 2, fx.caller.count("You are documenting a directory"), "src and the repository root")
	assert.Equal(t, 1, fx.caller.count("codebase-wide architectural synthesis"))
	assert.Equal(t, 1, fx.caller.count("architecture page"))
	assert.Equal(t, 1, fx.caller.count("landing page"))

	wikiDir := filepath.Join(fx.root, ".wikigen")
	for _, p := range []string{
		"overview.md",
		"architecture.md",
		filepath.Join("files", "src--a__py.md"),
		filepath.Join("files", "src--b__py.md"),
		filepath.Join("directories", "src__noext.md"),
		filepath.Join("directories", "root__noext.md"),
		filepath.Join("meta", "synthesis.json"),
		filepath.Join("meta", "embedding_metadata.json"),
	} {
		_, err := os.Stat(filepath.Join(wikiDir, p))
		assert.NoError(t, err, p)
	}

	_, err = os.Stat(filepath.Join(wikiDir, "generation.marker"))
	assert.True(t, os.IsNotExist(err), "marker must be removed after a successful run")

	// File pages carry the model's full documentation body, not the
	// one-sentence purpose, with the metadata block stripped.
	pageBytes, err := os.ReadFile(filepath.Join(wikiDir, "files", "src--a__py.md"))
	require.NoError(t, err)
	assert.Contains(t, string(pageBytes), "## Key abstractions")
	assert.NotContains(t, string(pageBytes), "layer: domain")

	dirBytes, err := os.ReadFile(filepath.Join(wikiDir, "directories", "src__noext.md"))
	require.NoError(t, err)
	assert.Contains(t, string(dirBytes), "# Directory documentation")
}

func TestRun_NoopRerunRegeneratesNothing(t *testing.T) {
	fx := newPipelineFixture(t)

	_, err := fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)
	afterCold := fx.caller.total()

	run, err := fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)
	assert.Equal(t, core.RunCompleted, run.Status)
	assert.Equal(t, afterCold, fx.caller.total(), "an unchanged repository must not trigger any LLM call")

	// The wiki is re-staged from stored pages and stays complete.
	_, err = os.Stat(filepath.Join(fx.root, ".wikigen", "overview.md"))
	assert.NoError(t, err)
}

func TestRun_SingleFileChangeCascadesWithoutTouchingSiblings(t *testing.T) {
	fx := newPipelineFixture(t)

	_, err := fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)

	fileCalls := fx.caller.count("You are documenting a single source file")
	dirCalls := fx.caller.count("You are documenting a directory")
	synthCalls := fx.caller.count("codebase-wide architectural synthesis")

	require.NoError(t, os.WriteFile(filepath.Join(fx.root, "src", "a.py"), []byte("def parse(record):\n    return dict(record)\n"), 0o644))

	_, err = fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)

	assert.Equal(t, fileCalls+1, fx.caller.count("You are documenting a single source file"), "only the changed file regenerates")
	assert.Equal(t, dirCalls+1, fx.caller.count("You are documenting a directory"), "src regenerates, the root directory does not")
	assert.Equal(t, synthCalls+1, fx.caller.count("codebase-wide architectural synthesis"), "a regenerated file cascades into synthesis")
}

func TestRun_NewNoteForcesRegenerationAndReachesThePrompt(t *testing.T) {
	fx := newPipelineFixture(t)

	_, err := fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)
	fileCalls := fx.caller.count("You are documenting a single source file")

	fx.addNote(core.NoteScopeFile, "src/a.py", "parse() is intentionally lossy, do not flag it", time.Now().Add(time.Minute))

	_, err = fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)

	assert.Equal(t, fileCalls+1, fx.caller.count("You are documenting a single source file"), "only the noted file regenerates")

	fx.caller.mu.Lock()
	defer fx.caller.mu.Unlock()
	var notedPrompt string
	for _, p := range fx.caller.prompts {
		if strings.Contains(p, "intentionally lossy") {
			notedPrompt = p
		}
	}
	require.NotEmpty(t, notedPrompt, "the note body must be injected into the regeneration prompt")
	assert.Contains(t, notedPrompt, "Developer Corrections (Ground Truth)")
}

func TestRun_ForceRegeneratesEverything(t *testing.T) {
	fx := newPipelineFixture(t)

	_, err := fx.orch.Run(context.Background(), fx.root, false)
	require.NoError(t, err)
	fileCalls := fx.caller.count("You are documenting a single source file")

	_, err = fx.orch.Run(context.Background(), fx.root, true)
	require.NoError(t, err)
	assert.Equal(t, fileCalls+2, fx.caller.count("You are documenting a single source file"))
}

func TestRun_RefusesConcurrentRunOnSameRepository(t *testing.T) {
	fx := newPipelineFixture(t)

	unlock, ok := fx.orch.tryLock(filepath.Clean(fx.root))
	require.True(t, ok)
	defer unlock()

	_, err := fx.orch.Run(context.Background(), fx.root, false)
	assert.ErrorIs(t, err, core.ErrRunInProgress)
}
