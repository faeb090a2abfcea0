package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/wikigen/internal/core"
)

// NoteRecord is the persisted form of core.Note.
type NoteRecord struct {
	ID           int64     `db:"id"`
	RepositoryID int64     `db:"repository_id"`
	Scope        string    `db:"scope"`
	Target       string    `db:"target"`
	Body         string    `db:"body"`
	CreatedAt    time.Time `db:"created_at"`
}

// NotesStore is the Notes Store (C7): the maintainer-authored corrections
// that drive the re-documentation loop. General-scope notes are returned by
// ListGeneral for every Q&A query; they never trigger cascade
// invalidation, which only looks at file- and directory-scoped notes.
type NotesStore interface {
	AddNote(ctx context.Context, repositoryID int64, scope core.NoteScope, target, body string) (*NoteRecord, error)
	ListNotes(ctx context.Context, repositoryID int64) ([]NoteRecord, error)
	ListForTarget(ctx context.Context, repositoryID int64, scope core.NoteScope, target string) ([]NoteRecord, error)
	ListGeneral(ctx context.Context, repositoryID int64) ([]NoteRecord, error)
}

type postgresNotesStore struct {
	db *sqlx.DB
}

func NewNotesStore(db *sqlx.DB) NotesStore {
	return &postgresNotesStore{db: db}
}

func (s *postgresNotesStore) AddNote(ctx context.Context, repositoryID int64, scope core.NoteScope, target, body string) (*NoteRecord, error) {
	var n NoteRecord
	err := s.db.GetContext(ctx, &n, `
		INSERT INTO notes (repository_id, scope, target, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, repository_id, scope, target, body, created_at`,
		repositoryID, string(scope), target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to add note for repo %d: %w", repositoryID, err)
	}
	return &n, nil
}

func (s *postgresNotesStore) ListNotes(ctx context.Context, repositoryID int64) ([]NoteRecord, error) {
	var notes []NoteRecord
	err := s.db.SelectContext(ctx, &notes, `
		SELECT id, repository_id, scope, target, body, created_at
		FROM notes WHERE repository_id = $1 ORDER BY created_at ASC`, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for repo %d: %w", repositoryID, err)
	}
	return notes, nil
}

func (s *postgresNotesStore) ListForTarget(ctx context.Context, repositoryID int64, scope core.NoteScope, target string) ([]NoteRecord, error) {
	var notes []NoteRecord
	err := s.db.SelectContext(ctx, &notes, `
		SELECT id, repository_id, scope, target, body, created_at
		FROM notes WHERE repository_id = $1 AND scope = $2 AND target = $3 ORDER BY created_at ASC`,
		repositoryID, string(scope), target)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for %s/%s: %w", scope, target, err)
	}
	return notes, nil
}

func (s *postgresNotesStore) ListGeneral(ctx context.Context, repositoryID int64) ([]NoteRecord, error) {
	return s.ListForTarget(ctx, repositoryID, core.NoteScopeGeneral, "")
}
