package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/wikigen/internal/core"
)

// PageRecord is the persisted form of core.GeneratedPage.
type PageRecord struct {
	ID           int64     `db:"id"`
	RepositoryID int64     `db:"repository_id"`
	Kind         string    `db:"kind"`
	Target       string    `db:"target"`
	Slug         string    `db:"slug"`
	Content      string    `db:"content"`
	WordCount    int       `db:"word_count"`
	SourceHash   string    `db:"source_hash"`
	GeneratedAt  time.Time `db:"generated_at"`
}

// LexicalHit is one full-text search result against the pages table.
type LexicalHit struct {
	Page PageRecord
	Rank float64
}

// PageStore is the Page Store (C6): atomic promotion target for generated
// pages, and the lexical half of the hybrid retrieval engine's index via
// Postgres tsvector full-text search.
type PageStore interface {
	UpsertPage(ctx context.Context, repositoryID int64, page core.GeneratedPage) (int64, error)
	GetPageBySlug(ctx context.Context, repositoryID int64, slug string) (*PageRecord, error)
	ListPages(ctx context.Context, repositoryID int64, kind core.PageKind) ([]PageRecord, error)
	DeletePagesByTarget(ctx context.Context, repositoryID int64, kind core.PageKind, targets []string) error

	// LexicalSearch ranks pages against a plain-text query using Postgres's
	// to_tsvector/plainto_tsquery full-text ranking, the lexical arm of the
	// hybrid semantic+lexical retrieval engine (C12).
	LexicalSearch(ctx context.Context, repositoryID int64, query string, topK int) ([]LexicalHit, error)
}

type postgresPageStore struct {
	db *sqlx.DB
}

func NewPageStore(db *sqlx.DB) PageStore {
	return &postgresPageStore{db: db}
}

func (s *postgresPageStore) UpsertPage(ctx context.Context, repositoryID int64, page core.GeneratedPage) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO pages (repository_id, kind, target, slug, content, word_count, source_hash, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (repository_id, kind, target) DO UPDATE SET
			slug = EXCLUDED.slug, content = EXCLUDED.content, word_count = EXCLUDED.word_count,
			source_hash = EXCLUDED.source_hash, generated_at = EXCLUDED.generated_at
		RETURNING id`,
		repositoryID, string(page.Kind), page.Target, page.Slug, page.Content, page.WordCount, page.SourceHash, page.GeneratedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert page %s/%s: %w", page.Kind, page.Target, err)
	}
	return id, nil
}

func (s *postgresPageStore) GetPageBySlug(ctx context.Context, repositoryID int64, slug string) (*PageRecord, error) {
	var p PageRecord
	err := s.db.GetContext(ctx, &p, `
		SELECT id, repository_id, kind, target, slug, content, word_count, source_hash, generated_at
		FROM pages WHERE repository_id = $1 AND slug = $2`, repositoryID, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get page %s: %w", slug, err)
	}
	return &p, nil
}

func (s *postgresPageStore) ListPages(ctx context.Context, repositoryID int64, kind core.PageKind) ([]PageRecord, error) {
	var pages []PageRecord
	query := `SELECT id, repository_id, kind, target, slug, content, word_count, source_hash, generated_at FROM pages WHERE repository_id = $1`
	args := []any{repositoryID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY target ASC`
	if err := s.db.SelectContext(ctx, &pages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list pages for repo %d: %w", repositoryID, err)
	}
	return pages, nil
}

func (s *postgresPageStore) DeletePagesByTarget(ctx context.Context, repositoryID int64, kind core.PageKind, targets []string) error {
	if len(targets) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM pages WHERE repository_id = ? AND kind = ? AND target IN (?)`,
		repositoryID, string(kind), targets)
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	query = s.db.Rebind(query)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete pages for repo %d: %w", repositoryID, err)
	}
	return nil
}

func (s *postgresPageStore) LexicalSearch(ctx context.Context, repositoryID int64, query string, topK int) ([]LexicalHit, error) {
	if topK <= 0 {
		topK = 10
	}
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, repository_id, kind, target, slug, content, word_count, source_hash, generated_at,
		       ts_rank(search_vector, plainto_tsquery('english', $2)) AS rank
		FROM pages
		WHERE repository_id = $1 AND search_vector @@ plainto_tsquery('english', $2)
		ORDER BY rank DESC
		LIMIT $3`, repositoryID, query, topK)
	if err != nil {
		return nil, fmt.Errorf("failed lexical search for repo %d: %w", repositoryID, err)
	}
	defer rows.Close()

	var hits []LexicalHit
	for rows.Next() {
		var p PageRecord
		var rank float64
		if err := rows.Scan(&p.ID, &p.RepositoryID, &p.Kind, &p.Target, &p.Slug, &p.Content, &p.WordCount, &p.SourceHash, &p.GeneratedAt, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan lexical search row: %w", err)
		}
		hits = append(hits, LexicalHit{Page: p, Rank: rank})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}
