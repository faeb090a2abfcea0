package llmadapt

import (
	"context"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/textsplitter"
)

// TokenEstimator implements textsplitter.Tokenizer with the
// character-count heuristic the orchestrator uses for token-budget
// batching: tokens ≈ len(text) * ratio, inflated by an overhead
// percentage to stay safely under the model's real context window. It
// defers to the underlying model's native tokenizer when one is
// available, the same layered approach the teacher's
// OllamaTokenizerAdapter uses.
type TokenEstimator struct {
	model           llms.Model
	ratio           float64 // tokens per character, e.g. 0.25
	overheadPercent float64 // e.g. 50 means inflate the raw estimate by 50%
}

func NewTokenEstimator(model llms.Model, ratio, overheadPercent float64) *TokenEstimator {
	if ratio <= 0 {
		ratio = 0.25
	}
	return &TokenEstimator{model: model, ratio: ratio, overheadPercent: overheadPercent}
}

func (e *TokenEstimator) CountTokens(ctx context.Context, _, text string) int {
	if t, ok := e.model.(llms.Tokenizer); ok {
		if n, err := t.CountTokens(ctx, text); err == nil {
			return n
		}
	}
	return e.EstimateTokens(ctx, "", text)
}

// EstimateTokens is the character-heuristic the synthesis builder uses for
// token-budget batching decisions: characters * ratio, inflated by the
// configured overhead percentage to absorb tokenizer variance across
// models.
func (e *TokenEstimator) EstimateTokens(_ context.Context, _, text string) int {
	raw := float64(len(text)) * e.ratio
	return int(raw * (1 + e.overheadPercent/100))
}

func (e *TokenEstimator) SplitTextByTokens(_ context.Context, _, text string, maxTokens int) ([]string, error) {
	maxChars := int(float64(maxTokens) / e.ratio)
	if maxChars <= 0 {
		maxChars = len(text)
	}
	var chunks []string
	for len(text) > maxChars {
		chunks = append(chunks, text[:maxChars])
		text = text[maxChars:]
	}
	if len(text) > 0 {
		chunks = append(chunks, text)
	}
	return chunks, nil
}

func (e *TokenEstimator) GetRecommendedChunkSize(_ context.Context, _ string) int {
	return 2000
}

func (e *TokenEstimator) GetOptimalOverlapTokens(_ context.Context, _ string) int {
	return 50
}

func (e *TokenEstimator) GetMaxContextWindow(_ context.Context, _ string) int {
	return 8192
}

var _ textsplitter.Tokenizer = (*TokenEstimator)(nil)
