package orchestrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/wikigen/internal/core"
)

func TestBuildTree_GroupsFilesAndRegistersAncestors(t *testing.T) {
	files := []core.ScannedFile{
		{Path: "main.go"},
		{Path: "internal/app/app.go"},
		{Path: "internal/app/config.go"},
		{Path: "internal/core/types.go"},
	}
	nodes := buildTree(files)

	root := nodes[""]
	require.NotNil(t, root)
	assert.Equal(t, []string{"main.go"}, root.childFiles)
	assert.ElementsMatch(t, []string{"internal"}, root.childDirs)

	internal := nodes["internal"]
	require.NotNil(t, internal)
	assert.ElementsMatch(t, []string{"internal/app", "internal/core"}, internal.childDirs)

	app := nodes["internal/app"]
	require.NotNil(t, app)
	assert.ElementsMatch(t, []string{"internal/app/app.go", "internal/app/config.go"}, app.childFiles)
}

func TestBottomUpOrder_DeepestFirst(t *testing.T) {
	files := []core.ScannedFile{
		{Path: "internal/app/app.go"},
		{Path: "main.go"},
	}
	nodes := buildTree(files)
	order := bottomUpOrder(nodes)

	require.Equal(t, []string{"internal/app", "internal", ""}, order)
}

func TestSignature_StableUnderChildOrdering(t *testing.T) {
	node := &dirNode{
		path:       "internal",
		childFiles: []string{"internal/b.go", "internal/a.go"},
		childDirs:  []string{"internal/sub"},
	}
	fileHashes := map[string]string{
		"internal/a.go": "hash-a",
		"internal/b.go": "hash-b",
	}
	dirSignatures := map[string]string{
		"internal/sub": "hash-sub",
	}

	sig1 := signature(node, fileHashes, dirSignatures)

	node.childFiles = []string{"internal/a.go", "internal/b.go"}
	sig2 := signature(node, fileHashes, dirSignatures)

	assert.Equal(t, sig1, sig2, "signature must not depend on input ordering")
}

func TestSignature_ChangesWhenChildHashChanges(t *testing.T) {
	node := &dirNode{path: "internal", childFiles: []string{"internal/a.go"}}
	before := signature(node, map[string]string{"internal/a.go": "hash-1"}, nil)
	after := signature(node, map[string]string{"internal/a.go": "hash-2"}, nil)

	assert.NotEqual(t, before, after)
}

func TestSignature_DoesNotRecurseBelowDirectChildren(t *testing.T) {
	// A grandchild file's hash change must not reach this directory's
	// signature at all: only direct child files and subdirectory names are
	// hashed, so deep edits regenerate the directory that contains them and
	// nothing above it.
	node := &dirNode{path: "internal", childDirs: []string{"internal/sub"}}
	before := signature(node, nil, map[string]string{"internal/sub": "sub-hash-1"})
	after := signature(node, nil, map[string]string{"internal/sub": "sub-hash-2"})
	assert.Equal(t, before, after)
}

func TestSignature_ChangesWhenSubdirectoryAddedOrRemoved(t *testing.T) {
	node := &dirNode{path: "internal", childDirs: []string{"internal/sub"}}
	before := signature(node, nil, nil)

	node.childDirs = append(node.childDirs, "internal/other")
	after := signature(node, nil, nil)
	assert.NotEqual(t, before, after)
}
