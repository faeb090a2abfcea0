// Package parse is the Parser Registry (C2): language-aware symbol and
// import extraction over goframe's tree-sitter-backed parsers, with a
// line-heuristic fallback for languages goframe doesn't ship a grammar for.
package parse

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevigo/goframe/parsers"

	"github.com/sevigo/wikigen/internal/core"
)

// Registry extracts an core.AnalysisResult from a single source file.
type Registry struct {
	delegate parsers.ParserRegistry
	logger   *slog.Logger
}

// New wraps an already-constructed goframe parser registry (built once at
// app startup via parsers.RegisterLanguagePlugins, the same call the
// teacher's wiring performs).
func New(delegate parsers.ParserRegistry, logger *slog.Logger) *Registry {
	return &Registry{delegate: delegate, logger: logger}
}

// Analyze reads and parses repoRoot/relPath, returning its symbols and
// imports. It never returns an error for an unparseable file — it falls
// back to the heuristic parser and records the failure in ParseError so
// callers can still produce a (lower-confidence) Files-phase summary.
func (r *Registry) Analyze(repoRoot, relPath string) (*core.AnalysisResult, error) {
	fullPath := filepath.Join(repoRoot, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}
	text := strings.ToValidUTF8(string(content), "")

	if r.delegate != nil {
		parser, pErr := r.delegate.GetParserForFile(fullPath, nil)
		if pErr != nil {
			r.logger.Debug("no tree-sitter parser for file, using heuristic fallback", "file", relPath, "error", pErr)
			return analyzeHeuristic(relPath, text), nil
		}

		chunks, cErr := parser.Chunk(text, relPath, nil)
		if cErr != nil {
			r.logger.Warn("tree-sitter chunking failed, using heuristic fallback", "file", relPath, "error", cErr)
			res := analyzeHeuristic(relPath, text)
			res.ParseError = cErr.Error()
			return res, nil
		}

		result := &core.AnalysisResult{
			Path:      relPath,
			Language:  languageForExt(filepath.Ext(relPath)),
			LineCount: strings.Count(text, "\n") + 1,
		}
		for _, chunk := range chunks {
			if chunk.Identifier == "" {
				continue
			}
			result.Symbols = append(result.Symbols, core.ParsedSymbol{
				Name:      chunk.Identifier,
				Kind:      chunk.Type,
				StartLine: chunk.LineStart,
				EndLine:   chunk.LineEnd,
			})
		}
		if meta, mErr := parser.ExtractMetadata(text, fullPath); mErr == nil {
			result.Imports = meta.Imports
		}
		return result, nil
	}
	return analyzeHeuristic(relPath, text), nil
}

func languageForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".js", ".jsx":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".java":
		return "java"
	case ".rs":
		return "rust"
	case ".rb":
		return "ruby"
	case ".c", ".h":
		return "c"
	case ".cpp", ".hpp", ".cc":
		return "cpp"
	default:
		return "plaintext"
	}
}
