package handler

import (
	"context"
	"errors"
	"time"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/storage"
)

type fakeStore struct {
	storage.Store
	repo        *storage.RepositoryRecord
	repoErr     error
	latestRun   *storage.GenerationRunRecord
	latestErr   error
	gotRootArgs []string
}

func (f *fakeStore) GetOrCreateRepository(_ context.Context, root string) (*storage.RepositoryRecord, error) {
	f.gotRootArgs = append(f.gotRootArgs, root)
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	return f.repo, nil
}

func (f *fakeStore) GetLatestGenerationRun(_ context.Context, _ int64) (*storage.GenerationRunRecord, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latestRun, nil
}

type fakePageStore struct {
	storage.PageStore
	pages      []storage.PageRecord
	page       *storage.PageRecord
	listErr    error
	getErr     error
	gotKindArg core.PageKind
}

func (f *fakePageStore) ListPages(_ context.Context, _ int64, kind core.PageKind) ([]storage.PageRecord, error) {
	f.gotKindArg = kind
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pages, nil
}

func (f *fakePageStore) GetPageBySlug(_ context.Context, _ int64, _ string) (*storage.PageRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.page, nil
}

type fakeNotesStore struct {
	storage.NotesStore
	notes      []storage.NoteRecord
	added      *storage.NoteRecord
	listErr    error
	addErr     error
	gotScope   core.NoteScope
	gotTarget  string
	gotBody    string
}

func (f *fakeNotesStore) ListNotes(_ context.Context, _ int64) ([]storage.NoteRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.notes, nil
}

func (f *fakeNotesStore) AddNote(_ context.Context, _ int64, scope core.NoteScope, target, body string) (*storage.NoteRecord, error) {
	f.gotScope, f.gotTarget, f.gotBody = scope, target, body
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.added, nil
}

type fakeDispatcher struct {
	err     error
	gotReqs []*core.GenerationRequest
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req *core.GenerationRequest) error {
	f.gotReqs = append(f.gotReqs, req)
	return f.err
}

func (f *fakeDispatcher) Stop() {}

var errFake = errors.New("fake store error")

func sampleRepo() *storage.RepositoryRecord {
	return &storage.RepositoryRecord{ID: 1, Root: "/repo", ScannedAt: time.Now()}
}
