package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EmbeddingMetadata records which embedding backend produced the vectors
// currently in the index (meta/embedding_metadata.json). The Q&A engine
// compares it against the active configuration so a model switch surfaces
// as an explicit mismatch warning instead of silently mixing incompatible
// vector spaces.
type EmbeddingMetadata struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	IndexedAt time.Time `json:"indexed_at"`
}

const embeddingMetadataFile = "embedding_metadata.json"

// WriteEmbeddingMetadata persists the metadata under metaDir.
func WriteEmbeddingMetadata(metaDir string, m EmbeddingMetadata) error {
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize embedding metadata: %w", err)
	}
	path := filepath.Join(metaDir, embeddingMetadataFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write embedding metadata: %w", err)
	}
	return os.Rename(tmp, path)
}

// ReadEmbeddingMetadata loads metaDir's embedding metadata. A missing file
// returns (nil, nil): a wiki generated before metadata recording existed
// is not an error, just unknown provenance.
func ReadEmbeddingMetadata(metaDir string) (*EmbeddingMetadata, error) {
	data, err := os.ReadFile(filepath.Join(metaDir, embeddingMetadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read embedding metadata: %w", err)
	}
	var m EmbeddingMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse embedding metadata: %w", err)
	}
	return &m, nil
}

// CheckEmbeddingMetadata compares the recorded index provenance against the
// active provider/model pair and returns a human-readable warning on
// mismatch, or "" when they agree (or no metadata was recorded). It never
// triggers a reindex itself.
func CheckEmbeddingMetadata(metaDir, provider, model string) (string, error) {
	recorded, err := ReadEmbeddingMetadata(metaDir)
	if err != nil {
		return "", err
	}
	if recorded == nil {
		return "", nil
	}
	if recorded.Provider != provider || recorded.Model != model {
		return fmt.Sprintf(
			"the index was built with embedder %s/%s but the current configuration uses %s/%s; answers may be degraded until the wiki is regenerated",
			recorded.Provider, recorded.Model, provider, model), nil
	}
	return "", nil
}
