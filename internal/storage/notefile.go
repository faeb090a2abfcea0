package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteNoteFile mirrors a note to the repository's notes directory as a
// front-matter markdown file, the human-readable counterpart of the notes
// table. The database row is the query path the cascade checks use; the
// file is what a maintainer reads and edits in their working tree.
func WriteNoteFile(notesDir string, n *NoteRecord) (string, error) {
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create notes directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s.md",
		n.CreatedAt.UTC().Format("2006-01-02T15-04-05Z"),
		n.Scope,
		noteSlug(n.Target),
	)
	path := filepath.Join(notesDir, name)

	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "scope: %s\n", n.Scope)
	fmt.Fprintf(&sb, "target: %s\n", n.Target)
	fmt.Fprintf(&sb, "created_at: %s\n", n.CreatedAt.UTC().Format(time.RFC3339))
	sb.WriteString("---\n")
	sb.WriteString(n.Body)
	if !strings.HasSuffix(n.Body, "\n") {
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write note file: %w", err)
	}
	return path, nil
}

func noteSlug(target string) string {
	if target == "" {
		return "general"
	}
	s := strings.ReplaceAll(target, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return s
}
