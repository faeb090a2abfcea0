// Package scan implements the Repository Scanner (C1): it walks a checked
// out working tree, applies the deny list / `.oyaignore` / RepoConfig
// exclusion rules, content-hashes the survivors, and reports which files
// changed since the last completed generation run.
package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sevigo/wikigen/internal/config"
	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/gitinfo"
)

// defaultDenyDirs are always excluded regardless of .oyaignore contents,
// mirroring the always-skipped VCS/build directories the teacher's own
// scanner and RAG indexer hard-code.
var defaultDenyDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "vendor": true,
	"dist": true, "build": true, "target": true,
	".wikigen": true,
}

// defaultMaxFileSize bounds how large a file can be and still be
// documented; anything bigger is skipped as a non-documentable blob.
const defaultMaxFileSize = 500 * 1024

// Scanner walks a repository root and produces the scanned file set plus
// an incremental diff against the last generation run.
type Scanner struct {
	logger      *slog.Logger
	maxFileSize int64
}

// New builds a Scanner. maxFileSize <= 0 falls back to the 500 KB
// default.
func New(logger *slog.Logger, maxFileSize int64) *Scanner {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	return &Scanner{logger: logger, maxFileSize: maxFileSize}
}

// Result is everything downstream phases need about the working tree.
type Result struct {
	Repository core.Repository
	Files      []core.ScannedFile
	Diff       core.ScanDiff
}

// Scan walks root, applies exclusion rules, hashes survivors, and compares
// against lastHeadSHA (empty on a first run or when force is true) to
// compute an incremental diff.
func (s *Scanner) Scan(root, lastHeadSHA string, force bool) (*Result, error) {
	root = filepath.Clean(root)

	repoConfig, err := config.LoadRepoConfig(root)
	if err != nil && err != config.ErrConfigNotFound {
		s.logger.Warn("failed to load .wikigen.yml, using defaults", "error", err)
	}
	ignoreRules, err := config.LoadIgnoreRules(root)
	if err != nil {
		s.logger.Warn("failed to load .oyaignore, proceeding without it", "error", err)
		ignoreRules = &config.IgnoreRules{}
	}

	files, err := s.walk(root, repoConfig, ignoreRules)
	if err != nil {
		return nil, fmt.Errorf("failed to walk repository: %w", err)
	}

	info, err := gitinfo.Read(root)
	if err != nil {
		s.logger.Warn("failed to read git metadata", "error", err)
	}

	repo := core.Repository{
		Root:        root,
		Branch:      info.Branch,
		HeadSHA:     info.HeadSHA,
		HeadSubject: info.HeadSubject,
		ScannedAt:   time.Now(),
	}

	diff := s.computeDiff(root, files, lastHeadSHA, info.HeadSHA, force)

	return &Result{Repository: repo, Files: files, Diff: diff}, nil
}

func (s *Scanner) walk(root string, repoConfig *core.RepoConfig, ignoreRules *config.IgnoreRules) ([]core.ScannedFile, error) {
	var files []core.ScannedFile
	excludeDirs := toSet(repoConfig.ExcludeDirs)
	excludeExts := toSet(normalizeExts(repoConfig.ExcludeExts))
	includes := normalizeIncludes(repoConfig.IncludePaths)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if info.IsDir() {
			name := info.Name()
			excluded := defaultDenyDirs[name] || excludeDirs[name] ||
				(strings.HasPrefix(name, ".") && name != ".") ||
				ignoreRules.Match(rel, true)
			// An excluded directory is still descended into when an
			// explicit include path names it or lives beneath it.
			if excluded && !matchesInclude(includes, rel) && !includeDescends(includes, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))

		included := matchesInclude(includes, rel)
		if !included {
			if strings.HasPrefix(info.Name(), ".") {
				return nil
			}
			if ignoreRules.Match(rel, false) {
				return nil
			}
			if excludeExts[strings.TrimPrefix(ext, ".")] {
				return nil
			}
		}
		if info.Size() > s.maxFileSize {
			return nil
		}

		isBinary, err := looksBinary(path)
		if err != nil {
			s.logger.Warn("failed to sniff file, skipping", "path", rel, "error", err)
			return nil
		}
		if isBinary {
			return nil
		}

		hash, err := hashFile(path)
		if err != nil {
			s.logger.Warn("failed to hash file, skipping", "path", rel, "error", err)
			return nil
		}

		files = append(files, core.ScannedFile{
			Path:        rel,
			Kind:        classify(ext),
			Size:        info.Size(),
			ContentHash: hash,
			ModTime:     info.ModTime(),
		})
		return nil
	})
	return files, err
}

// computeDiff compares the current head against the last indexed head. It
// falls back to treating every file as changed whenever a git-based diff
// isn't possible (force requested, no prior SHA, or the two SHAs can't be
// resolved in history — e.g. a rebase happened upstream).
func (s *Scanner) computeDiff(root string, files []core.ScannedFile, lastHeadSHA, headSHA string, force bool) core.ScanDiff {
	if force || lastHeadSHA == "" || headSHA == "" || lastHeadSHA == headSHA {
		diff := core.ScanDiff{Full: force || lastHeadSHA == ""}
		if lastHeadSHA != "" && lastHeadSHA == headSHA && !force {
			diff.Full = false // nothing changed at the commit level; per-file hash comparison happens upstream
		}
		return diff
	}

	added, modified, deleted, err := gitinfo.Diff(root, lastHeadSHA, headSHA)
	if err != nil {
		s.logger.Warn("git diff failed, falling back to full rescan", "error", err)
		return core.ScanDiff{Full: true}
	}
	return core.ScanDiff{Added: added, Modified: modified, Deleted: deleted}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// looksBinary sniffs the first 512 bytes for a NUL byte, the same
// heuristic net/http.DetectContentType and most git implementations use.
func looksBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true, nil
		}
	}
	return false, nil
}

func classify(ext string) core.FileKind {
	switch ext {
	case ".md", ".mdx", ".rst", ".txt":
		return core.FileKindDoc
	case ".yml", ".yaml", ".json", ".toml", ".ini", ".env":
		return core.FileKindConfig
	case ".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".c", ".h", ".cpp", ".hpp",
		".rs", ".rb", ".php", ".cs", ".kt", ".swift", ".scala":
		return core.FileKindSource
	default:
		return core.FileKindOther
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func normalizeExts(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(strings.ToLower(e), ".")
	}
	return out
}

func normalizeIncludes(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.Trim(strings.TrimPrefix(strings.TrimSpace(p), "./"), "/")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// matchesInclude reports whether rel is named by an include entry: an
// exact path, anything beneath an included directory, or a glob match.
func matchesInclude(includes []string, rel string) bool {
	for _, p := range includes {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
		if ok, _ := path.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// includeDescends reports whether any include entry lives beneath dir, so
// the walk must enter dir even though an exclusion rule matched it.
func includeDescends(includes []string, dir string) bool {
	for _, p := range includes {
		if strings.HasPrefix(p, dir+"/") {
			return true
		}
	}
	return false
}
