package llmadapt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug_RoundTripsKnownExtensions(t *testing.T) {
	paths := []string{
		"main.go",
		"lib/Pkg/Mod.py",
		"internal/app/app.go",
		"web/src/components/App.tsx",
		"README.md",
		"config/settings.yaml",
		"deep/nested/tree/of/dirs/file.rs",
	}
	for _, p := range paths {
		slug := Slug(p)
		back, ok := UnslugPath(slug)
		require.True(t, ok, "slug %q must be reversible", slug)
		assert.Equal(t, p, back)
	}
}

func TestSlug_RoundTripsPathsWithoutExtension(t *testing.T) {
	for _, p := range []string{"Makefile", "scripts/run", "root"} {
		back, ok := UnslugPath(Slug(p))
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
}

func TestSlug_RoundTripsUnknownExtensions(t *testing.T) {
	for _, p := range []string{"data/input.csv", "notes.org"} {
		back, ok := UnslugPath(Slug(p))
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
}

func TestSlug_SeparatorIsFilesystemSafe(t *testing.T) {
	slug := Slug("lib/Pkg/Mod.py")
	assert.NotContains(t, slug, "/")
	assert.Equal(t, "lib--Pkg--Mod__py", slug)
}

func TestUnslugPath_RejectsHandCraftedInput(t *testing.T) {
	for _, s := range []string{"no-marker-here", "stem__bogusext"} {
		_, ok := UnslugPath(s)
		assert.False(t, ok, s)
	}
}
