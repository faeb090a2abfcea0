package core

// RepoConfig represents the structure of the per-repository `.wikigen.yml`
// override file.
type RepoConfig struct {
	// Custom instructions appended to every phase prompt for this repo.
	CustomInstructions []string `yaml:"custom_instructions"`

	// High-performance exclusion of entire directories by name, in addition
	// to whatever `.oyaignore` already excludes.
	// Example: ["dist", "build", "docs"]
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Exclusion of files based on their extension.
	// The leading dot is optional. Example: [".md", "lock", ".log"]
	ExcludeExts []string `yaml:"exclude_exts"`

	// IncludePaths reinclude specific paths that the deny list, dot-prefix
	// rule or `.oyaignore` would otherwise drop — for example a hidden
	// notes directory. Entries are repo-relative paths (a directory entry
	// covers everything beneath it) or glob patterns.
	// Example: [".notes", "vendor/patched/*.go"]
	IncludePaths []string `yaml:"include_paths"`

	// ParallelLimit overrides the default bounded fan-out width for this repo.
	ParallelLimit int `yaml:"parallel_limit"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		CustomInstructions: []string{},
		ExcludeDirs:        []string{},
		ExcludeExts:        []string{},
		IncludePaths:       []string{},
	}
}
