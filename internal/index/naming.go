package index

import (
	"fmt"
	"regexp"
	"strings"
)

var collectionNameRegexp = regexp.MustCompile("[^a-z0-9_-]+")

// CollectionName builds a valid Qdrant collection name scoped to a
// repository root and embedder model, so switching embedder models does not
// silently mix incompatible vectors in one collection.
func CollectionName(repoRoot, embedderModel string) string {
	safeRoot := strings.ToLower(strings.ReplaceAll(repoRoot, "/", "-"))
	safeEmbedder := strings.ToLower(strings.Split(embedderModel, ":")[0])

	safeRoot = collectionNameRegexp.ReplaceAllString(safeRoot, "")
	safeEmbedder = collectionNameRegexp.ReplaceAllString(safeEmbedder, "")

	name := fmt.Sprintf("wiki-%s-%s", safeRoot, safeEmbedder)

	const maxCollectionNameLength = 255
	if len(name) > maxCollectionNameLength {
		name = name[:maxCollectionNameLength]
	}
	return name
}
