// Package index implements the Indexing phase (C11): embedding generated
// pages into a per-repository Qdrant collection for the semantic arm of the
// hybrid retrieval engine. The lexical arm lives in storage.PageStore's
// Postgres tsvector search; this package only owns the vector side.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/goframe/embeddings"
	"github.com/sevigo/goframe/schema"
	"github.com/sevigo/goframe/vectorstores"
	"github.com/sevigo/goframe/vectorstores/qdrant"
)

// SemanticHit is one nearest-neighbor result from the vector index.
type SemanticHit struct {
	Path      string
	Content   string
	LineStart int
	LineEnd   int
	Score     float64
}

//go:generate mockgen -destination=../../mocks/mock_index.go -package=mocks github.com/sevigo/wikigen/internal/index VectorIndex

// VectorIndex is the Indexing phase's vector-store collaborator.
type VectorIndex interface {
	IndexPages(ctx context.Context, collectionName string, docs []schema.Document) error
	SemanticSearch(ctx context.Context, collectionName, query string, topK int) ([]SemanticHit, error)
	DropCollection(ctx context.Context, collectionName string) error
}

type qdrantIndex struct {
	host     string
	embedder embeddings.Embedder
	logger   *slog.Logger
}

func NewQdrantIndex(host string, embedder embeddings.Embedder, logger *slog.Logger) VectorIndex {
	return &qdrantIndex{host: host, embedder: embedder, logger: logger}
}

func (q *qdrantIndex) storeFor(collectionName string) (vectorstores.VectorStore, error) {
	if strings.TrimSpace(collectionName) == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	return qdrant.New(
		qdrant.WithHost(q.host),
		qdrant.WithEmbedder(q.embedder),
		qdrant.WithCollectionName(collectionName),
		qdrant.WithLogger(q.logger),
	)
}

// IndexPages upserts document chunks into the repository's collection. A
// stable document ID (repo-scoped slug + chunk offset) is expected to
// already be set in each document's metadata by the caller so re-indexing
// after an incremental regeneration overwrites rather than duplicates.
func (q *qdrantIndex) IndexPages(ctx context.Context, collectionName string, docs []schema.Document) error {
	if len(docs) == 0 {
		return nil
	}
	store, err := q.storeFor(collectionName)
	if err != nil {
		return fmt.Errorf("failed to get vector store for %s: %w", collectionName, err)
	}
	if _, err := store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to index documents into %s: %w", collectionName, err)
	}
	return nil
}

func (q *qdrantIndex) SemanticSearch(ctx context.Context, collectionName, query string, topK int) ([]SemanticHit, error) {
	store, err := q.storeFor(collectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get vector store for %s: %w", collectionName, err)
	}
	docs, err := store.SimilaritySearch(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("semantic search against %s failed: %w", collectionName, err)
	}

	hits := make([]SemanticHit, 0, len(docs))
	for _, doc := range docs {
		hit := SemanticHit{Content: doc.PageContent}
		if path, ok := doc.Metadata["path"].(string); ok {
			hit.Path = path
		}
		if start, ok := doc.Metadata["line_start"].(int); ok {
			hit.LineStart = start
		}
		if end, ok := doc.Metadata["line_end"].(int); ok {
			hit.LineEnd = end
		}
		if score, ok := doc.Metadata["score"].(float64); ok {
			hit.Score = score
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (q *qdrantIndex) DropCollection(ctx context.Context, collectionName string) error {
	store, err := q.storeFor(collectionName)
	if err != nil {
		return fmt.Errorf("failed to get vector store for %s: %w", collectionName, err)
	}
	return store.DeleteCollection(ctx, collectionName)
}
