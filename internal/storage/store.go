// Package storage implements the Page Store and Notes Store (C6/C7) plus
// the bookkeeping tables (repositories, generation runs, file/directory
// summaries) the orchestrator uses for incremental regeneration and
// crash/resume, grounded on the teacher's postgresStore pattern.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/wikigen/internal/core"
)

// RepositoryRecord is the bookkeeping row for a single repository root this
// module has ever generated a wiki for.
type RepositoryRecord struct {
	ID          int64     `db:"id"`
	Root        string    `db:"root"`
	Branch      string    `db:"branch"`
	HeadSHA     string    `db:"head_sha"`
	HeadSubject string    `db:"head_subject"`
	ScannedAt   time.Time `db:"scanned_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// FileSummaryRecord is the persisted form of core.FileSummary, scoped to a
// repository, used to detect which files changed since the last run.
type FileSummaryRecord struct {
	RepositoryID int64           `db:"repository_id"`
	Path         string          `db:"path"`
	ContentHash  string          `db:"content_hash"`
	Purpose      string          `db:"purpose"`
	Layer        string          `db:"layer"`
	Dependencies json.RawMessage `db:"dependencies"`
	Pitfalls     string          `db:"pitfalls"`
	GeneratedAt  time.Time       `db:"generated_at"`
}

// DirectorySummaryRecord is the persisted form of core.DirectorySummary.
type DirectorySummaryRecord struct {
	RepositoryID int64           `db:"repository_id"`
	Path         string          `db:"path"`
	Signature    string          `db:"signature"`
	Purpose      string          `db:"purpose"`
	Layer        string          `db:"layer"`
	Children     json.RawMessage `db:"children"`
	GeneratedAt  time.Time       `db:"generated_at"`
}

// GenerationRunRecord is the persisted form of core.GenerationRun.
type GenerationRunRecord struct {
	ID           int64     `db:"id"`
	RepositoryID int64     `db:"repository_id"`
	Status       string    `db:"status"`
	LastPhase    string    `db:"last_phase"`
	StartedAt    time.Time `db:"started_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Error        string    `db:"error"`
}

//go:generate mockgen -destination=../../mocks/mock_store.go -package=mocks github.com/sevigo/wikigen/internal/storage Store,PageStore,NotesStore

// Store is the bookkeeping half of the persistence layer: repository
// identity, incremental-regen state and generation-run crash/resume
// records. The Page Store (PageStore) and Notes Store (NotesStore)
// interfaces cover the generated-content half.
type Store interface {
	GetOrCreateRepository(ctx context.Context, root string) (*RepositoryRecord, error)
	UpdateRepositoryHead(ctx context.Context, repositoryID int64, branch, headSHA, headSubject string, scannedAt time.Time) error

	GetFileSummaries(ctx context.Context, repositoryID int64) (map[string]FileSummaryRecord, error)
	UpsertFileSummary(ctx context.Context, repositoryID int64, s core.FileSummary) error
	DeleteFileSummaries(ctx context.Context, repositoryID int64, paths []string) error

	GetDirectorySummaries(ctx context.Context, repositoryID int64) (map[string]DirectorySummaryRecord, error)
	UpsertDirectorySummary(ctx context.Context, repositoryID int64, s core.DirectorySummary) error
	DeleteDirectorySummaries(ctx context.Context, repositoryID int64, paths []string) error

	CreateGenerationRun(ctx context.Context, repositoryID int64) (*GenerationRunRecord, error)
	UpdateGenerationRun(ctx context.Context, run *GenerationRunRecord) error
	GetLatestGenerationRun(ctx context.Context, repositoryID int64) (*GenerationRunRecord, error)
}

type postgresStore struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) GetOrCreateRepository(ctx context.Context, root string) (*RepositoryRecord, error) {
	var repo RepositoryRecord
	err := s.db.GetContext(ctx, &repo, `SELECT id, root, branch, head_sha, head_subject, scanned_at, created_at, updated_at FROM repositories WHERE root = $1`, root)
	if err == nil {
		return &repo, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to query repository %s: %w", root, err)
	}

	err = s.db.GetContext(ctx, &repo, `
		INSERT INTO repositories (root) VALUES ($1)
		ON CONFLICT (root) DO UPDATE SET root = EXCLUDED.root
		RETURNING id, root, branch, head_sha, head_subject, scanned_at, created_at, updated_at`, root)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository %s: %w", root, err)
	}
	return &repo, nil
}

func (s *postgresStore) UpdateRepositoryHead(ctx context.Context, repositoryID int64, branch, headSHA, headSubject string, scannedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE repositories SET branch = $1, head_sha = $2, head_subject = $3, scanned_at = $4, updated_at = NOW()
		WHERE id = $5`, branch, headSHA, headSubject, scannedAt, repositoryID)
	if err != nil {
		return fmt.Errorf("failed to update repository head for %d: %w", repositoryID, err)
	}
	return nil
}

func (s *postgresStore) GetFileSummaries(ctx context.Context, repositoryID int64) (map[string]FileSummaryRecord, error) {
	var rows []FileSummaryRecord
	err := s.db.SelectContext(ctx, &rows, `
		SELECT repository_id, path, content_hash, purpose, layer, dependencies, pitfalls, generated_at
		FROM file_summaries WHERE repository_id = $1`, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list file summaries for repo %d: %w", repositoryID, err)
	}
	out := make(map[string]FileSummaryRecord, len(rows))
	for _, r := range rows {
		out[r.Path] = r
	}
	return out, nil
}

func (s *postgresStore) UpsertFileSummary(ctx context.Context, repositoryID int64, sm core.FileSummary) error {
	deps, err := json.Marshal(sm.Dependencies)
	if err != nil {
		return fmt.Errorf("failed to marshal dependencies for %s: %w", sm.Path, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO file_summaries (repository_id, path, content_hash, purpose, layer, dependencies, pitfalls, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (repository_id, path) DO UPDATE SET
			content_hash = EXCLUDED.content_hash, purpose = EXCLUDED.purpose, layer = EXCLUDED.layer,
			dependencies = EXCLUDED.dependencies, pitfalls = EXCLUDED.pitfalls,
			generated_at = EXCLUDED.generated_at`,
		repositoryID, sm.Path, sm.ContentHash, sm.Purpose, string(sm.Layer), deps, sm.Pitfalls, sm.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert file summary %s: %w", sm.Path, err)
	}
	return nil
}

func (s *postgresStore) DeleteFileSummaries(ctx context.Context, repositoryID int64, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM file_summaries WHERE repository_id = ? AND path IN (?)`, repositoryID, paths)
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	query = s.db.Rebind(query)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete file summaries for repo %d: %w", repositoryID, err)
	}
	return nil
}

func (s *postgresStore) GetDirectorySummaries(ctx context.Context, repositoryID int64) (map[string]DirectorySummaryRecord, error) {
	var rows []DirectorySummaryRecord
	err := s.db.SelectContext(ctx, &rows, `
		SELECT repository_id, path, signature, purpose, layer, children, generated_at
		FROM directory_summaries WHERE repository_id = $1`, repositoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory summaries for repo %d: %w", repositoryID, err)
	}
	out := make(map[string]DirectorySummaryRecord, len(rows))
	for _, r := range rows {
		out[r.Path] = r
	}
	return out, nil
}

func (s *postgresStore) UpsertDirectorySummary(ctx context.Context, repositoryID int64, sm core.DirectorySummary) error {
	children, err := json.Marshal(sm.Children)
	if err != nil {
		return fmt.Errorf("failed to marshal children for %s: %w", sm.Path, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO directory_summaries (repository_id, path, signature, purpose, layer, children, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (repository_id, path) DO UPDATE SET
			signature = EXCLUDED.signature, purpose = EXCLUDED.purpose,
			layer = EXCLUDED.layer, children = EXCLUDED.children,
			generated_at = EXCLUDED.generated_at`,
		repositoryID, sm.Path, sm.Signature, sm.Purpose, sm.Layer, children, sm.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert directory summary %s: %w", sm.Path, err)
	}
	return nil
}

func (s *postgresStore) DeleteDirectorySummaries(ctx context.Context, repositoryID int64, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM directory_summaries WHERE repository_id = ? AND path IN (?)`, repositoryID, paths)
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	query = s.db.Rebind(query)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete directory summaries for repo %d: %w", repositoryID, err)
	}
	return nil
}

func (s *postgresStore) CreateGenerationRun(ctx context.Context, repositoryID int64) (*GenerationRunRecord, error) {
	var run GenerationRunRecord
	err := s.db.GetContext(ctx, &run, `
		INSERT INTO generation_runs (repository_id, status, last_phase)
		VALUES ($1, $2, '')
		RETURNING id, repository_id, status, last_phase, started_at, updated_at, error`,
		repositoryID, string(core.RunPending))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation run for repo %d: %w", repositoryID, err)
	}
	return &run, nil
}

func (s *postgresStore) UpdateGenerationRun(ctx context.Context, run *GenerationRunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_runs SET status = $1, last_phase = $2, error = $3, updated_at = NOW()
		WHERE id = $4`, run.Status, run.LastPhase, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update generation run %d: %w", run.ID, err)
	}
	return nil
}

func (s *postgresStore) GetLatestGenerationRun(ctx context.Context, repositoryID int64) (*GenerationRunRecord, error) {
	var run GenerationRunRecord
	err := s.db.GetContext(ctx, &run, `
		SELECT id, repository_id, status, last_phase, started_at, updated_at, error
		FROM generation_runs WHERE repository_id = $1 ORDER BY started_at DESC LIMIT 1`, repositoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest generation run for repo %d: %w", repositoryID, err)
	}
	return &run, nil
}
