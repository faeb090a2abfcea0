package synth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/wikigen/internal/core"
)

func sampleMap() *core.SynthesisMap {
	return &core.SynthesisMap{
		Layers: map[string]*core.LayerInfo{
			"domain": {Purpose: "business rules", Files: []string{"src/a.py"}, Directories: []string{"src"}},
		},
		KeyComponents:   []core.KeyComponent{{Name: "Parser", File: "src/a.py", Role: "parses", Layer: "domain"}},
		DependencyGraph: map[string][]string{"domain": {}},
		ProjectSummary:  "A small tool.",
		EntryPoints:     []string{"cmd/tool/main.go"},
		GeneratedAt:     time.Now().UTC().Truncate(time.Second),
	}
}

func TestSynthFile_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta", "synthesis.json")
	want := sampleMap()

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Layers, got.Layers)
	assert.Equal(t, want.KeyComponents, got.KeyComponents)
	assert.Equal(t, want.DependencyGraph, got.DependencyGraph)
	assert.Equal(t, want.ProjectSummary, got.ProjectSummary)
	assert.Equal(t, want.EntryPoints, got.EntryPoints)
}

func TestSynthFile_StampsContentHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthesis.json")
	require.NoError(t, Save(path, sampleMap()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	hash, _ := raw["synthesis_hash"].(string)
	assert.Len(t, hash, 12)
}

func TestSynthFile_HashChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	p1, p2 := filepath.Join(dir, "one.json"), filepath.Join(dir, "two.json")

	m := sampleMap()
	require.NoError(t, Save(p1, m))
	m.ProjectSummary = "Something entirely different."
	require.NoError(t, Save(p2, m))

	read := func(p string) string {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		h, _ := raw["synthesis_hash"].(string)
		return h
	}
	assert.NotEqual(t, read(p1), read(p2))
}

func TestSynthFile_LoadMissingReturnsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
