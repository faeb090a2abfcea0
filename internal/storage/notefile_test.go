package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNoteFile_FrontMatterAndBody(t *testing.T) {
	dir := t.TempDir()
	n := &NoteRecord{
		ID: 7, Scope: "file", Target: "src/server/router.py",
		Body:      "The retry loop is intentional, do not document it as a bug.",
		CreatedAt: time.Date(2025, 1, 30, 10, 15, 0, 0, time.UTC),
	}

	path, err := WriteNoteFile(dir, n)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-30T10-15-00Z-file-src-server-router-py.md", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "scope: file\n")
	assert.Contains(t, content, "target: src/server/router.py\n")
	assert.Contains(t, content, "created_at: 2025-01-30T10:15:00Z\n")
	assert.True(t, strings.HasSuffix(content, "do not document it as a bug.\n"))
}

func TestWriteNoteFile_GeneralScopeUsesGeneralSlug(t *testing.T) {
	dir := t.TempDir()
	n := &NoteRecord{Scope: "general", Target: "", Body: "prefer US spelling", CreatedAt: time.Now()}

	path, err := WriteNoteFile(dir, n)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "-general-general.md")
}
