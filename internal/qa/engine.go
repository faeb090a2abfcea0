// Package qa implements the Retrieval & Grounded Q&A engine (C12): hybrid
// semantic+lexical retrieval, evidence gating, citation extraction and
// notes-aware context assembly, grounded on ragService.AnswerQuestion.
package qa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/index"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/metrics"
	"github.com/sevigo/wikigen/internal/storage"
	"github.com/sevigo/wikigen/internal/summary"
)

// HistoryTurn is one prior exchange in a multi-turn Q&A session.
type HistoryTurn struct {
	Role    string
	Content string
}

// GateMode controls what the evidence gate does when too little grounded
// context was retrieved for a question: refuse outright, or answer anyway
// with a disclaimer attached.
type GateMode string

const (
	GateModeStrict GateMode = "gated"
	GateModeLoose  GateMode = "loose"
)

// SearchQuality reports whether both retrieval arms contributed to an
// answer's evidence set, so a caller can tell a fully-hybrid answer apart
// from one that degraded to a single retrieval mode.
type SearchQuality string

const (
	SearchQualityFull             SearchQuality = "full"
	SearchQualityDegradedSemantic SearchQuality = "degraded_semantic" // semantic arm failed, lexical only
	SearchQualityDegradedLexical  SearchQuality = "degraded_lexical"  // lexical arm failed, semantic only
)

// Confidence summarizes how well-supported an Answer is, derived from the
// number of evidence spans clearing EvidenceMinScore and the best score
// among them.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

const (
	disclaimerInsufficientEvidence = "This answer could not be grounded in sufficient evidence from the indexed wiki."
	disclaimerLimitedEvidence      = "This answer is based on limited evidence and may be incomplete or inaccurate."
)

// Answer is the Q&A engine's final grounded response.
type Answer struct {
	Text          string
	Citations     []summary.Citation
	Confidence    Confidence
	Disclaimer    string
	SearchQuality SearchQuality
}

// contextSpan is one retrieved piece of evidence, already deduplicated and
// ranked across the semantic and lexical arms.
type contextSpan struct {
	Path      string
	LineStart int
	LineEnd   int
	Content   string
	Score     float64
}

// Engine answers natural-language questions about a repository using only
// retrieved, already-generated wiki content and maintainer notes as
// evidence — it never falls back to the model's unguided knowledge.
type Engine struct {
	Index            index.VectorIndex
	Pages            storage.PageStore
	Notes            storage.NotesStore
	Client           llmadapt.Caller
	Prompts          *llmadapt.PromptManager
	Firewall         *llmadapt.Firewall
	Provider         llmadapt.ModelProvider
	Timeout          time.Duration
	Estimator        *llmadapt.TokenEstimator
	ContextBudget    int // max estimated tokens of retrieved context per prompt
	TopK             int
	EvidenceMinScore float64
	Mode             GateMode
	// EnableHyDE swaps the raw question for a generated hypothetical code
	// snippet on the semantic arm, which embeds closer to indexed code
	// documentation than a natural-language question does.
	EnableHyDE bool
	Logger     *slog.Logger
}

func (e *Engine) gateMode() GateMode {
	if e.Mode == "" {
		return GateModeStrict
	}
	return e.Mode
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

type questionPromptData struct {
	Question string
	History  []HistoryTurn
	Context  []contextSpan
	Notes    []storage.NoteRecord
}

// Answer retrieves evidence for question from both the semantic vector
// index and the Postgres lexical index, merges and deduplicates the
// results, and applies the evidence gate: in GateModeStrict, fewer than two
// results clearing EvidenceMinScore yields core.ErrEvidenceGate; in
// GateModeLoose the question is still answered, with a "limited evidence"
// disclaimer attached and Confidence forced to low.
func (e *Engine) Answer(ctx context.Context, repositoryID int64, collectionName, question string, history []HistoryTurn) (*Answer, error) {
	spans, quality, err := e.retrieve(ctx, repositoryID, collectionName, question)
	if err != nil {
		return nil, err
	}

	count := evidenceCount(spans, e.EvidenceMinScore)
	sufficient := count >= 2
	if !sufficient && e.gateMode() == GateModeStrict {
		metrics.EvidenceGateRefusals.Inc()
		metrics.QAQuestions.WithLabelValues("refused").Inc()
		return nil, fmt.Errorf("%s: %w", disclaimerInsufficientEvidence, core.ErrEvidenceGate)
	}

	var bestScore float64
	if len(spans) > 0 {
		bestScore = spans[0].Score
	}
	confidence := confidenceFor(count, bestScore)
	disclaimer := ""
	if !sufficient {
		confidence = ConfidenceLow
		disclaimer = disclaimerLimitedEvidence
	}

	generalNotes, err := e.Notes.ListGeneral(ctx, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load general notes: %w", err)
	}
	targetedNotes, err := e.notesForSpans(ctx, repositoryID, spans)
	if err != nil {
		return nil, err
	}
	notes := append(generalNotes, targetedNotes...)

	data := questionPromptData{Question: question, History: history, Context: e.budgetSpans(ctx, spans), Notes: notes}
	prompt, err := e.Prompts.Render(llmadapt.QuestionPrompt, e.Provider, data)
	if err != nil {
		return nil, fmt.Errorf("could not render question prompt: %w", err)
	}

	raw, err := e.Client.Call(ctx, prompt, e.Timeout)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	if err := e.Firewall.Check(raw); err != nil {
		return nil, err
	}

	parsed, err := summary.ParseAnswer(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing answer: %w", err)
	}

	citations := filterCitations(parsed.Citations, spans)
	if len(citations) == 0 {
		citations = topPaths(spans, 3)
	}

	metrics.QAQuestions.WithLabelValues("answered").Inc()
	return &Answer{
		Text:          parsed.Text,
		Citations:     citations,
		Confidence:    confidence,
		Disclaimer:    disclaimer,
		SearchQuality: quality,
	}, nil
}

// retrieve runs the semantic and lexical arms in parallel and merges
// their results into one ranked, deduplicated span list. A single arm's
// failure degrades to the survivor rather than failing the whole
// question; only a failure of both arms is fatal.
func (e *Engine) retrieve(ctx context.Context, repositoryID int64, collectionName, question string) ([]contextSpan, SearchQuality, error) {
	topK := e.TopK
	if topK <= 0 {
		topK = 12
	}

	semanticQuery := question
	if e.EnableHyDE {
		if hypothetical, err := e.hydeQuery(ctx, question); err != nil {
			e.logger().Warn("HyDE expansion failed, searching with the raw question", "error", err)
		} else if hypothetical != "" {
			semanticQuery = hypothetical
		}
	}

	var (
		wg           sync.WaitGroup
		semanticHits []index.SemanticHit
		lexicalHits  []storage.LexicalHit
		semErr       error
		lexErr       error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		semanticHits, semErr = e.Index.SemanticSearch(ctx, collectionName, semanticQuery, topK)
	}()
	go func() {
		defer wg.Done()
		lexicalHits, lexErr = e.Pages.LexicalSearch(ctx, repositoryID, question, topK)
	}()
	wg.Wait()

	if semErr != nil {
		e.logger().Warn("semantic retrieval failed, degrading to lexical-only", "error", semErr)
	}
	if lexErr != nil {
		e.logger().Warn("lexical retrieval failed, degrading to semantic-only", "error", lexErr)
	}
	if semErr != nil && lexErr != nil {
		return nil, "", fmt.Errorf("both retrieval arms failed: %w", errors.Join(semErr, lexErr))
	}

	quality := SearchQualityFull
	switch {
	case semErr != nil:
		quality = SearchQualityDegradedSemantic
	case lexErr != nil:
		quality = SearchQualityDegradedLexical
	}

	merged := make(map[string]*contextSpan)
	for _, h := range semanticHits {
		score := h.Score * 0.6
		if existing, ok := merged[h.Path]; ok && existing.Score >= score {
			continue
		}
		merged[h.Path] = &contextSpan{Path: h.Path, LineStart: h.LineStart, LineEnd: h.LineEnd, Content: h.Content, Score: score}
	}
	for _, h := range lexicalHits {
		key := h.Page.Target
		if existing, ok := merged[key]; ok {
			existing.Score += h.Rank * 0.4
			continue
		}
		merged[key] = &contextSpan{Path: h.Page.Target, Content: h.Page.Content, Score: h.Rank * 0.4}
	}

	spans := make([]contextSpan, 0, len(merged))
	for _, s := range merged {
		spans = append(spans, *s)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Score > spans[j].Score })
	if len(spans) > topK {
		spans = spans[:topK]
	}
	return spans, quality, nil
}

// budgetSpans keeps the highest-ranked spans whose combined estimated
// token size fits the context budget — the same character-heuristic
// estimator the synthesis builder batches with, not a raw character cap.
// The first span is always kept so a single oversized page still yields
// an answer.
func (e *Engine) budgetSpans(ctx context.Context, spans []contextSpan) []contextSpan {
	if e.Estimator == nil || e.ContextBudget <= 0 {
		return spans
	}
	var kept []contextSpan
	used := 0
	for _, s := range spans {
		tokens := e.Estimator.EstimateTokens(ctx, "", s.Content)
		if len(kept) > 0 && used+tokens > e.ContextBudget {
			break
		}
		kept = append(kept, s)
		used += tokens
	}
	return kept
}

// hydeQuery generates a hypothetical code snippet for question, used as
// the embedding query instead of the question itself.
func (e *Engine) hydeQuery(ctx context.Context, question string) (string, error) {
	prompt, err := e.Prompts.Render(llmadapt.HyDEPrompt, e.Provider, struct{ Question string }{question})
	if err != nil {
		return "", err
	}
	return e.Client.Call(ctx, prompt, e.Timeout)
}

// evidenceCount returns how many spans clear min, the evidence-gate's
// minimum-relevant-result count per §4.10.
func evidenceCount(spans []contextSpan, min float64) int {
	n := 0
	for _, s := range spans {
		if s.Score >= min {
			n++
		}
	}
	return n
}

// confidenceFor derives an Answer's confidence from the evidence count and
// the best-scoring span, per the "Confidence is derived from evidence
// count and best distance" rule in §4.10.
func confidenceFor(count int, best float64) Confidence {
	switch {
	case count >= 3 && best >= 0.75:
		return ConfidenceHigh
	case count >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// topPaths returns citations for the top n retrieved spans' paths, used as
// the fallback per §4.10 when the model's own [CITATIONS] block contained
// no citation that survived validation.
func topPaths(spans []contextSpan, n int) []summary.Citation {
	if n > len(spans) {
		n = len(spans)
	}
	out := make([]summary.Citation, 0, n)
	for _, s := range spans[:n] {
		out = append(out, summary.Citation{Path: s.Path, LineStart: s.LineStart, LineEnd: s.LineEnd})
	}
	return out
}

func (e *Engine) notesForSpans(ctx context.Context, repositoryID int64, spans []contextSpan) ([]storage.NoteRecord, error) {
	seen := make(map[string]bool)
	var out []storage.NoteRecord
	for _, s := range spans {
		if seen[s.Path] {
			continue
		}
		seen[s.Path] = true
		notes, err := e.Notes.ListForTarget(ctx, repositoryID, core.NoteScopeFile, s.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load notes for %s: %w", s.Path, err)
		}
		out = append(out, notes...)
	}
	return out, nil
}

// filterCitations drops any citation whose path never appeared in the
// retrieved context, guarding against a model citing evidence it was never
// actually given.
func filterCitations(citations []summary.Citation, spans []contextSpan) []summary.Citation {
	known := make(map[string]bool, len(spans))
	for _, s := range spans {
		known[s.Path] = true
	}
	var out []summary.Citation
	for _, c := range citations {
		if known[c.Path] {
			out = append(out, c)
		}
	}
	return out
}
