package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionName_ScopesByRepoAndModel(t *testing.T) {
	a := CollectionName("/home/dev/projects/alpha", "nomic-embed-text")
	b := CollectionName("/home/dev/projects/beta", "nomic-embed-text")
	c := CollectionName("/home/dev/projects/alpha", "mxbai-embed-large")

	assert.NotEqual(t, a, b, "different repositories must not share a collection")
	assert.NotEqual(t, a, c, "different embedder models must not share a collection")
}

func TestCollectionName_StripsInvalidCharacters(t *testing.T) {
	name := CollectionName("/Some/Path With Spaces/Репо", "Model:latest")
	assert.NotContains(t, name, " ")
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, ":")
	assert.Equal(t, strings.ToLower(name), name)
}

func TestCollectionName_TruncatesOverlongNames(t *testing.T) {
	name := CollectionName("/"+strings.Repeat("verylongsegment/", 40), "model")
	assert.LessOrEqual(t, len(name), 255)
}
