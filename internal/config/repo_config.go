package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/wikigen/internal/core"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
)

// LoadRepoConfig loads and parses the `.wikigen.yml` file from a repository
// root, falling back to defaults when the file is absent.
func LoadRepoConfig(repoRoot string) (*core.RepoConfig, error) {
	configPath := filepath.Join(repoRoot, ".wikigen.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultRepoConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .wikigen.yml: %w", err)
	}

	cfg := core.DefaultRepoConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	return cfg, nil
}

// IgnoreRules holds the parsed patterns from a repository's `.oyaignore`
// file, a gitignore-style exclusion list consumed by the Repository
// Scanner in addition to the built-in deny list and RepoConfig overrides.
type IgnoreRules struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern string
	negate  bool
	dirOnly bool
}

// LoadIgnoreRules reads `.oyaignore` from the repository root. A missing
// file yields empty (non-error) rules, since `.oyaignore` is optional.
func LoadIgnoreRules(repoRoot string) (*IgnoreRules, error) {
	f, err := os.Open(filepath.Join(repoRoot, ".oyaignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return &IgnoreRules{}, nil
		}
		return nil, fmt.Errorf("failed to read .oyaignore: %w", err)
	}
	defer f.Close()

	var rules IgnoreRules
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p := ignorePattern{pattern: line}
		if strings.HasPrefix(p.pattern, "!") {
			p.negate = true
			p.pattern = strings.TrimPrefix(p.pattern, "!")
		}
		if strings.HasSuffix(p.pattern, "/") {
			p.dirOnly = true
			p.pattern = strings.TrimSuffix(p.pattern, "/")
		}
		p.pattern = strings.TrimPrefix(p.pattern, "/")
		rules.patterns = append(rules.patterns, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan .oyaignore: %w", err)
	}
	return &rules, nil
}

// Match reports whether relPath (slash-separated, relative to the
// repository root) is excluded by the loaded rules. isDir tells Match
// whether relPath is itself a directory, for "trailing slash" patterns.
// Later rules win over earlier ones, and a "!"-prefixed pattern re-includes
// a path excluded by an earlier pattern — the same precedence gitignore
// uses.
func (r *IgnoreRules) Match(relPath string, isDir bool) bool {
	if r == nil {
		return false
	}
	excluded := false
	base := filepath.Base(relPath)
	for _, p := range r.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if matchesIgnorePattern(p.pattern, relPath, base) {
			excluded = !p.negate
		}
	}
	return excluded
}

func matchesIgnorePattern(pattern, relPath, base string) bool {
	if ok, _ := filepath.Match(pattern, base); ok {
		return true
	}
	if ok, _ := filepath.Match(pattern, relPath); ok {
		return true
	}
	return strings.Contains(pattern, "/") == false && strings.HasPrefix(relPath, pattern+"/")
}
