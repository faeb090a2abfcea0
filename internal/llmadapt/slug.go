package llmadapt

import "strings"

// slugExtensions is the closed allowlist of source extensions the slug
// scheme recognizes. Keeping this list closed (rather than accepting any
// extension) is what makes Slug/UnslugPath a true round trip: an
// extension outside this list is encoded as "noext" and cannot collide
// with a real one.
const (
	extGo    = ".go"
	extJS    = ".js"
	extTS    = ".ts"
	extTSX   = ".tsx"
	extJSX   = ".jsx"
	extPy    = ".py"
	extJava  = ".java"
	extC     = ".c"
	extCpp   = ".cpp"
	extH     = ".h"
	extHPP   = ".hpp"
	extRS    = ".rs"
	extRB    = ".rb"
	extPHP   = ".php"
	extCS    = ".cs"
	extSwift = ".swift"
	extKT    = ".kt"
	extScala = ".scala"
	extMD    = ".md"
	extYAML  = ".yaml"
	extYML   = ".yml"
	extJSON  = ".json"
)

var slugExtensions = map[string]string{
	extGo: "go", extJS: "js", extTS: "ts", extTSX: "tsx", extJSX: "jsx",
	extPy: "py", extJava: "java", extC: "c", extCpp: "cpp", extH: "h",
	extHPP: "hpp", extRS: "rs", extRB: "rb", extPHP: "php", extCS: "cs",
	extSwift: "swift", extKT: "kt", extScala: "scala",
	extMD: "md", extYAML: "yaml", extYML: "yml", extJSON: "json",
}

var slugCodesToExt = reverse(slugExtensions)

func reverse(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func isCodeExtension(ext string) bool {
	_, ok := slugExtensions[ext]
	return ok
}

// Slug turns a repository-relative path into a filesystem-safe, reversible
// page identifier: path separators become "--", and the extension is
// replaced by its allowlisted short code (or "noext" when unrecognized)
// so UnslugPath can losslessly recover the original path.
func Slug(relPath string) string {
	ext := ""
	if i := strings.LastIndexByte(relPath, '.'); i >= 0 {
		ext = relPath[i:]
	}
	stem := strings.TrimSuffix(relPath, ext)
	stem = strings.ReplaceAll(stem, "/", "--")

	code, ok := slugExtensions[strings.ToLower(ext)]
	if !ok {
		if ext == "" {
			return stem + "__noext"
		}
		return stem + "__noext" + strings.ReplaceAll(ext, ".", "_")
	}
	return stem + "__" + code
}

// UnslugPath reverses Slug. It returns ok=false for a slug that was never
// produced by Slug (e.g. hand-crafted input), which callers must treat as
// an invalid page reference rather than guess at a path.
func UnslugPath(slug string) (path string, ok bool) {
	i := strings.LastIndex(slug, "__")
	if i < 0 {
		return "", false
	}
	stem, code := slug[:i], slug[i+2:]
	stem = strings.ReplaceAll(stem, "--", "/")

	if strings.HasPrefix(code, "noext") {
		rest := strings.TrimPrefix(code, "noext")
		if rest == "" {
			return stem, true
		}
		return stem + strings.ReplaceAll(rest, "_", "."), true
	}

	ext, ok := slugCodesToExt[code]
	if !ok {
		return "", false
	}
	return stem + ext, true
}
