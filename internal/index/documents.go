package index

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sevigo/goframe/schema"

	"github.com/sevigo/wikigen/internal/core"
)

// BuildDocuments turns one generated page into one or more embeddable
// documents. Pages short enough to fit under maxChunkChars are indexed
// whole; longer ones are split on paragraph boundaries so a retrieval hit
// returns one chunk instead of the entire page. Chunk metadata carries the
// page's path and slug but no line range.
func BuildDocuments(page core.GeneratedPage, maxChunkChars int) []schema.Document {
	if maxChunkChars <= 0 {
		maxChunkChars = 2000
	}

	chunks := splitParagraphs(page.Content, maxChunkChars)
	docs := make([]schema.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, schema.NewDocument(chunk, map[string]any{
			"id":          documentID(page.Slug, i),
			"path":        page.Target,
			"slug":        page.Slug,
			"kind":        string(page.Kind),
			"chunk_type":  "wiki_page",
			"source_hash": page.SourceHash,
		}))
	}
	return docs
}

// documentID derives a stable UUID from the page slug and chunk offset so
// re-indexing after a regeneration overwrites the existing point instead
// of accumulating duplicates.
func documentID(slug string, chunkIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s:%d", slug, chunkIndex)).String()
}

// splitParagraphs breaks text on blank-line boundaries, greedily packing
// paragraphs into chunks no larger than maxChars.
func splitParagraphs(text string, maxChars int) []string {
	if len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	var current string
	start := 0
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '\n' && text[i+1] == '\n' {
			para := text[start : i+1]
			if len(current)+len(para) > maxChars && current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			current += para
			start = i + 2
		}
	}
	current += text[start:]
	if current != "" {
		chunks = append(chunks, current)
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}
	return chunks
}
