package llmadapt

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenEstimator_AppliesRatioAndOverhead(t *testing.T) {
	e := NewTokenEstimator(nil, 0.25, 50)

	// 400 chars * 0.25 = 100 raw tokens, +50% overhead = 150.
	text := strings.Repeat("a", 400)
	assert.Equal(t, 150, e.EstimateTokens(context.Background(), "", text))
}

func TestTokenEstimator_DefaultsRatioWhenUnset(t *testing.T) {
	e := NewTokenEstimator(nil, 0, 0)
	assert.Equal(t, 100, e.EstimateTokens(context.Background(), "", strings.Repeat("a", 400)))
}

func TestTokenEstimator_SplitTextByTokensCoversWholeInput(t *testing.T) {
	e := NewTokenEstimator(nil, 0.25, 0)
	text := strings.Repeat("abcd ", 100)

	chunks, err := e.SplitTextByTokens(context.Background(), "", text, 25)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100, "each chunk stays under maxTokens/ratio characters")
	}
}
