package synth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sevigo/wikigen/internal/core"
)

// synthFile is the on-disk form of a SynthesisMap (meta/synthesis.json).
// SynthesisHash is a short digest over the map's content, recomputed on
// every save. Load does not read it back, and the orchestrator does not
// compare it across runs.
type synthFile struct {
	Layers          map[string]*layerInfoFile `json:"layers"`
	KeyComponents   []keyComponentFile        `json:"key_components"`
	DependencyGraph map[string][]string       `json:"dependency_graph"`
	ProjectSummary  string                    `json:"project_summary"`
	EntryPoints     []string                  `json:"entry_points,omitempty"`
	SynthesisHash   string                    `json:"synthesis_hash"`
	GeneratedAt     time.Time                 `json:"generated_at"`
}

type layerInfoFile struct {
	Purpose     string   `json:"purpose"`
	Files       []string `json:"files"`
	Directories []string `json:"directories"`
}

type keyComponentFile struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Role  string `json:"role"`
	Layer string `json:"layer"`
}

// Save serializes m to path (creating parent directories), stamping the
// file with a content hash of its serialized body.
func Save(path string, m *core.SynthesisMap) error {
	f := toFile(m)

	body, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to serialize synthesis map: %w", err)
	}
	sum := sha256.Sum256(body)
	f.SynthesisHash = hex.EncodeToString(sum[:])[:12]

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize synthesis map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create synthesis directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write synthesis map: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a previously saved synthesis.json back into a SynthesisMap.
// A missing file returns os.ErrNotExist unwrapped so callers can
// distinguish "first run" from a real read failure.
func Load(path string) (*core.SynthesisMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f synthFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse synthesis map %s: %w", path, err)
	}
	return fromFile(&f), nil
}

func toFile(m *core.SynthesisMap) *synthFile {
	f := &synthFile{
		Layers:          make(map[string]*layerInfoFile, len(m.Layers)),
		DependencyGraph: m.DependencyGraph,
		ProjectSummary:  m.ProjectSummary,
		EntryPoints:     m.EntryPoints,
		GeneratedAt:     m.GeneratedAt,
	}
	for name, info := range m.Layers {
		f.Layers[name] = &layerInfoFile{Purpose: info.Purpose, Files: info.Files, Directories: info.Directories}
	}
	for _, c := range m.KeyComponents {
		f.KeyComponents = append(f.KeyComponents, keyComponentFile{Name: c.Name, File: c.File, Role: c.Role, Layer: c.Layer})
	}
	return f
}

func fromFile(f *synthFile) *core.SynthesisMap {
	m := &core.SynthesisMap{
		Layers:          make(map[string]*core.LayerInfo, len(f.Layers)),
		DependencyGraph: f.DependencyGraph,
		ProjectSummary:  f.ProjectSummary,
		EntryPoints:     f.EntryPoints,
		GeneratedAt:     f.GeneratedAt,
	}
	if m.DependencyGraph == nil {
		m.DependencyGraph = make(map[string][]string)
	}
	for name, info := range f.Layers {
		m.Layers[name] = &core.LayerInfo{Purpose: info.Purpose, Files: info.Files, Directories: info.Directories}
	}
	for _, c := range f.KeyComponents {
		m.KeyComponents = append(m.KeyComponents, core.KeyComponent{Name: c.Name, File: c.File, Role: c.Role, Layer: c.Layer})
	}
	return m
}
