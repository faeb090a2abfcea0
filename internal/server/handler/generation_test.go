package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/wikigen/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerationHandler_Dispatch_Accepted(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := NewGenerationHandler(dispatcher, &fakeStore{}, discardLogger())

	body := bytes.NewBufferString(`{"root":"/repo","force":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", body)
	w := httptest.NewRecorder()

	h.Dispatch(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, dispatcher.gotReqs, 1)
	assert.Equal(t, "/repo", dispatcher.gotReqs[0].RepoRoot)
	assert.True(t, dispatcher.gotReqs[0].Force)
}

func TestGenerationHandler_Dispatch_RejectsMissingRoot(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	h := NewGenerationHandler(dispatcher, &fakeStore{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	h.Dispatch(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, dispatcher.gotReqs)
}

func TestGenerationHandler_Dispatch_ServiceUnavailableOnDispatchError(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errFake}
	h := NewGenerationHandler(dispatcher, &fakeStore{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewBufferString(`{"root":"/repo"}`))
	w := httptest.NewRecorder()

	h.Dispatch(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGenerationHandler_LatestRun(t *testing.T) {
	store := &fakeStore{repo: sampleRepo(), latestRun: &storage.GenerationRunRecord{ID: 7, Status: "completed"}}
	h := NewGenerationHandler(&fakeDispatcher{}, store, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest?root=/repo", nil)
	w := httptest.NewRecorder()

	h.LatestRun(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got storage.GenerationRunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "completed", got.Status)
}

func TestGenerationHandler_LatestRun_NotFound(t *testing.T) {
	store := &fakeStore{repo: sampleRepo(), latestErr: errFake}
	h := NewGenerationHandler(&fakeDispatcher{}, store, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest?root=/repo", nil)
	w := httptest.NewRecorder()

	h.LatestRun(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerationHandler_LatestRun_RequiresRoot(t *testing.T) {
	h := NewGenerationHandler(&fakeDispatcher{}, &fakeStore{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil)
	w := httptest.NewRecorder()

	h.LatestRun(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
