package parse

import (
	"regexp"
	"strings"

	"github.com/sevigo/wikigen/internal/core"
)

var heuristicSymbolPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(?:export\s+)?(?:async\s+)?function\s+([A-Za-z_$][\w$]*)`), // JS/TS
	regexp.MustCompile(`^\s*def\s+([A-Za-z_]\w*)\s*\(`),                                // Python
	regexp.MustCompile(`^\s*class\s+([A-Za-z_]\w*)`),                                   // most OO languages
	regexp.MustCompile(`^\s*(?:public|private|protected)?\s*(?:static\s+)?[\w<>\[\]]+\s+([A-Za-z_]\w*)\s*\(`), // Java/C#
	regexp.MustCompile(`^\s*fn\s+([A-Za-z_]\w*)\s*\(`), // Rust
}

var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*import\s+["']([^"']+)["']`),
	regexp.MustCompile(`^\s*import\s+([A-Za-z_][\w.]*)\s*$`),
	regexp.MustCompile(`^\s*from\s+(\S+)\s+import`),
	regexp.MustCompile(`^\s*#include\s+[<"]([^>"]+)[>"]`),
	regexp.MustCompile(`^\s*require\(["']([^"']+)["']\)`),
}

// analyzeHeuristic extracts a best-effort symbol/import list with simple
// line-prefix regexes when no tree-sitter grammar is available for the
// file's language. It never fails: worst case it returns zero symbols.
func analyzeHeuristic(relPath, text string) *core.AnalysisResult {
	lines := strings.Split(text, "\n")
	result := &core.AnalysisResult{
		Path:      relPath,
		Language:  languageForExt(relPathExt(relPath)),
		LineCount: len(lines),
	}

	for i, line := range lines {
		for _, re := range heuristicSymbolPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				result.Symbols = append(result.Symbols, core.ParsedSymbol{
					Name:      m[1],
					Kind:      "symbol",
					StartLine: i + 1,
					EndLine:   i + 1,
				})
				break
			}
		}
		for _, re := range importPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				result.Imports = append(result.Imports, m[1])
				break
			}
		}
	}
	return result
}

func relPathExt(relPath string) string {
	if i := strings.LastIndexByte(relPath, '.'); i >= 0 {
		return relPath[i:]
	}
	return ""
}
