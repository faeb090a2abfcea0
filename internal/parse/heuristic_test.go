package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeHeuristic_PythonDefsAndImports(t *testing.T) {
	src := "import os\nfrom pathlib import Path\n\nclass Loader:\n    def load(self, path):\n        return path\n\ndef main():\n    pass\n"

	result := analyzeHeuristic("tool/loader.py", src)

	var names []string
	for _, s := range result.Symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Loader")
	assert.Contains(t, names, "load")
	assert.Contains(t, names, "main")
	assert.Contains(t, result.Imports, "os")
	assert.Contains(t, result.Imports, "pathlib")
	assert.Equal(t, "python", result.Language)
}

func TestAnalyzeHeuristic_JavaScriptFunctions(t *testing.T) {
	src := "import \"./util\"\n\nexport async function fetchAll() {}\nfunction helper() {}\n"

	result := analyzeHeuristic("web/api.js", src)

	require.Len(t, result.Symbols, 2)
	assert.Equal(t, "fetchAll", result.Symbols[0].Name)
	assert.Equal(t, "helper", result.Symbols[1].Name)
	assert.Contains(t, result.Imports, "./util")
}

func TestAnalyzeHeuristic_NeverFailsOnUnknownContent(t *testing.T) {
	result := analyzeHeuristic("data/notes.txt", "just prose, nothing parseable\n")
	assert.Empty(t, result.Symbols)
	assert.Empty(t, result.Imports)
	assert.Equal(t, "plaintext", result.Language)
	assert.Equal(t, 2, result.LineCount)
}

func TestAnalyzeHeuristic_RecordsLineNumbers(t *testing.T) {
	src := "\n\ndef late():\n    pass\n"
	result := analyzeHeuristic("x.py", src)
	require.Len(t, result.Symbols, 1)
	assert.Equal(t, 3, result.Symbols[0].StartLine)
}
