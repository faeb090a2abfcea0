package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/goframe/schema"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/index"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/storage"
	"github.com/sevigo/wikigen/internal/summary"
)

type fakeVectorIndex struct {
	index.VectorIndex
	hits []index.SemanticHit
	err  error
}

func (f *fakeVectorIndex) SemanticSearch(context.Context, string, string, int) ([]index.SemanticHit, error) {
	return f.hits, f.err
}

func (f *fakeVectorIndex) IndexPages(context.Context, string, []schema.Document) error { return nil }

type fakePageStore struct {
	storage.PageStore
	hits []storage.LexicalHit
	err  error
}

func (f *fakePageStore) LexicalSearch(context.Context, int64, string, int) ([]storage.LexicalHit, error) {
	return f.hits, f.err
}

var errFakeRetrieval = errors.New("boom")

func TestRetrieveFullWhenBothArmsSucceed(t *testing.T) {
	e := &Engine{
		Index: &fakeVectorIndex{hits: []index.SemanticHit{
			{Path: "a.go", Score: 0.9, LineStart: 1, LineEnd: 10},
		}},
		Pages: &fakePageStore{hits: []storage.LexicalHit{
			{Page: storage.PageRecord{Target: "b.go", Content: "stuff"}, Rank: 0.8},
		}},
		TopK: 10,
	}

	spans, quality, err := e.retrieve(context.Background(), 1, "coll", "how does this work?")
	require.NoError(t, err)
	assert.Equal(t, SearchQualityFull, quality)
	assert.Len(t, spans, 2)
}

func TestRetrieveDegradesWhenSemanticArmFails(t *testing.T) {
	e := &Engine{
		Index: &fakeVectorIndex{err: errFakeRetrieval},
		Pages: &fakePageStore{hits: []storage.LexicalHit{
			{Page: storage.PageRecord{Target: "b.go", Content: "stuff"}, Rank: 0.8},
		}},
		TopK: 10,
	}

	spans, quality, err := e.retrieve(context.Background(), 1, "coll", "q")
	require.NoError(t, err)
	assert.Equal(t, SearchQualityDegradedSemantic, quality)
	require.Len(t, spans, 1)
	assert.Equal(t, "b.go", spans[0].Path)
}

func TestRetrieveDegradesWhenLexicalArmFails(t *testing.T) {
	e := &Engine{
		Index: &fakeVectorIndex{hits: []index.SemanticHit{{Path: "a.go", Score: 0.9}}},
		Pages: &fakePageStore{err: errFakeRetrieval},
		TopK:  10,
	}

	spans, quality, err := e.retrieve(context.Background(), 1, "coll", "q")
	require.NoError(t, err)
	assert.Equal(t, SearchQualityDegradedLexical, quality)
	require.Len(t, spans, 1)
	assert.Equal(t, "a.go", spans[0].Path)
}

func TestRetrieveFailsWhenBothArmsFail(t *testing.T) {
	e := &Engine{
		Index: &fakeVectorIndex{err: errFakeRetrieval},
		Pages: &fakePageStore{err: errFakeRetrieval},
		TopK:  10,
	}

	_, _, err := e.retrieve(context.Background(), 1, "coll", "q")
	assert.Error(t, err)
}

func TestEvidenceGateStrictRefusesOnInsufficientEvidence(t *testing.T) {
	e := &Engine{
		Index:            &fakeVectorIndex{hits: []index.SemanticHit{{Path: "a.go", Score: 0.1}}},
		Pages:            &fakePageStore{},
		TopK:             10,
		EvidenceMinScore: 0.5,
		Mode:             GateModeStrict,
	}

	_, err := e.Answer(context.Background(), 1, "coll", "q", nil)
	assert.ErrorIs(t, err, core.ErrEvidenceGate)
}

func TestEvidenceCountAndConfidence(t *testing.T) {
	spans := []contextSpan{{Score: 0.9}, {Score: 0.8}, {Score: 0.1}}
	assert.Equal(t, 2, evidenceCount(spans, 0.5))
	assert.Equal(t, ConfidenceMedium, confidenceFor(2, 0.8))
	assert.Equal(t, ConfidenceHigh, confidenceFor(3, 0.9))
	assert.Equal(t, ConfidenceLow, confidenceFor(1, 0.9))
}

func TestFilterCitationsDropsUnknownPaths(t *testing.T) {
	spans := []contextSpan{{Path: "a.go"}}
	citations := []summary.Citation{{Path: "a.go", LineStart: 1}, {Path: "unknown.go"}}
	out := filterCitations(citations, spans)
	require.Len(t, out, 1)
	assert.Equal(t, "a.go", out[0].Path)
}

func TestBudgetSpansBoundsPromptContext(t *testing.T) {
	e := &Engine{
		Estimator:     llmadapt.NewTokenEstimator(nil, 0.25, 0),
		ContextBudget: 100, // 400 chars at 0.25 tokens/char
	}
	spans := []contextSpan{
		{Path: "a.go", Content: strings.Repeat("x", 300)}, // 75 tokens
		{Path: "b.go", Content: strings.Repeat("x", 300)}, // would exceed the budget
		{Path: "c.go", Content: strings.Repeat("x", 40)},
	}

	kept := e.budgetSpans(context.Background(), spans)
	require.Len(t, kept, 1)
	assert.Equal(t, "a.go", kept[0].Path)
}

func TestBudgetSpansAlwaysKeepsTopSpan(t *testing.T) {
	e := &Engine{Estimator: llmadapt.NewTokenEstimator(nil, 0.25, 0), ContextBudget: 10}
	spans := []contextSpan{{Path: "huge.go", Content: strings.Repeat("x", 10_000)}}

	kept := e.budgetSpans(context.Background(), spans)
	require.Len(t, kept, 1)
}

func TestTopPathsFallsBackWhenNoCitationsSurvive(t *testing.T) {
	spans := []contextSpan{{Path: "a.go"}, {Path: "b.go"}, {Path: "c.go"}, {Path: "d.go"}}
	out := topPaths(spans, 3)
	require.Len(t, out, 3)
	assert.Equal(t, "a.go", out[0].Path)
}
