package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingMetadata_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := EmbeddingMetadata{Provider: "ollama", Model: "nomic-embed-text", IndexedAt: time.Now().UTC().Truncate(time.Second)}

	require.NoError(t, WriteEmbeddingMetadata(dir, want))

	got, err := ReadEmbeddingMetadata(dir)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Provider, got.Provider)
	assert.Equal(t, want.Model, got.Model)
	assert.True(t, want.IndexedAt.Equal(got.IndexedAt))
}

func TestEmbeddingMetadata_MissingFileIsNotAnError(t *testing.T) {
	got, err := ReadEmbeddingMetadata(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckEmbeddingMetadata_WarnsOnModelSwitch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteEmbeddingMetadata(dir, EmbeddingMetadata{Provider: "ollama", Model: "nomic-embed-text"}))

	warning, err := CheckEmbeddingMetadata(dir, "ollama", "mxbai-embed-large")
	require.NoError(t, err)
	assert.NotEmpty(t, warning)

	warning, err = CheckEmbeddingMetadata(dir, "ollama", "nomic-embed-text")
	require.NoError(t, err)
	assert.Empty(t, warning)
}

func TestCheckEmbeddingMetadata_NoRecordedProvenancePassesSilently(t *testing.T) {
	warning, err := CheckEmbeddingMetadata(t.TempDir(), "ollama", "nomic-embed-text")
	require.NoError(t, err)
	assert.Empty(t, warning)
}
