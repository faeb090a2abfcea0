package orchestrate

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"sort"
	"strings"

	"github.com/sevigo/wikigen/internal/core"
)

// dirNode is one directory's direct children, used to walk the tree
// bottom-up for the Directories phase and to compute each directory's
// non-recursive signature.
type dirNode struct {
	path       string
	childFiles []string
	childDirs  []string
}

// buildTree groups scanned files by their containing directory and
// reconstructs the directory hierarchy up to the repository root (""),
// without ever touching the filesystem again.
func buildTree(files []core.ScannedFile) map[string]*dirNode {
	nodes := make(map[string]*dirNode)
	ensure := func(p string) *dirNode {
		if n, ok := nodes[p]; ok {
			return n
		}
		n := &dirNode{path: p}
		nodes[p] = n
		return n
	}
	ensure("")

	for _, f := range files {
		dir := dirOf(f.Path)
		ensure(dir).childFiles = append(ensure(dir).childFiles, f.Path)

		// Walk up registering each ancestor directory as a child of its parent.
		for d := dir; d != ""; {
			parent := dirOf(d)
			ensure(parent)
			if !contains(nodes[parent].childDirs, d) {
				nodes[parent].childDirs = append(nodes[parent].childDirs, d)
			}
			d = parent
		}
	}

	return nodes
}

// bottomUpOrder returns directory paths ordered deepest-first so every
// directory's children are processed before the directory itself.
func bottomUpOrder(nodes map[string]*dirNode) []string {
	order := make([]string, 0, len(nodes))
	for p := range nodes {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool {
		di, dj := strings.Count(order[i], "/"), strings.Count(order[j], "/")
		if order[i] == "" {
			di = -1
		}
		if order[j] == "" {
			dj = -1
		}
		if di != dj {
			return di > dj
		}
		return order[i] < order[j]
	})
	return order
}

// signature computes the non-recursive directory signature: sha256 over
// the sorted (name, content-hash) pairs of direct child files, plus the
// names (only) of direct subdirectories. A grandchild edit changes its own
// directory's signature but deliberately not the grandparent's — deep
// changes never cascade regeneration up the tree, a documented limitation
// of the signature scheme.
func signature(node *dirNode, fileHashes map[string]string, _ map[string]string) string {
	type pair struct{ name, hash string }
	var pairs []pair
	for _, f := range node.childFiles {
		pairs = append(pairs, pair{name: path.Base(f), hash: fileHashes[f]})
	}
	for _, d := range node.childDirs {
		pairs = append(pairs, pair{name: path.Base(d), hash: ""})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	h := sha256.New()
	for _, p := range pairs {
		h.Write([]byte(p.name))
		h.Write([]byte{0})
		h.Write([]byte(p.hash))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func dirOf(relPath string) string {
	d := path.Dir(relPath)
	if d == "." {
		return ""
	}
	return d
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
