// Package handler provides HTTP handlers for the wikigen application.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/storage"
)

// GenerationHandler queues generation requests and reports run progress.
type GenerationHandler struct {
	dispatcher core.JobDispatcher
	store      storage.Store
	logger     *slog.Logger
}

func NewGenerationHandler(dispatcher core.JobDispatcher, store storage.Store, logger *slog.Logger) *GenerationHandler {
	return &GenerationHandler{dispatcher: dispatcher, store: store, logger: logger}
}

type dispatchRequest struct {
	Root  string `json:"root"`
	Force bool   `json:"force"`
}

// Dispatch queues a generation run for the requested repository root.
func (h *GenerationHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Root == "" {
		http.Error(w, "root is required", http.StatusBadRequest)
		return
	}

	if err := h.dispatcher.Dispatch(r.Context(), &core.GenerationRequest{RepoRoot: req.Root, Force: req.Force}); err != nil {
		h.logger.Error("failed to dispatch generation job", "error", err, "root", req.Root)
		http.Error(w, "failed to queue generation job", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("generation job accepted"))
}

// LatestRun reports the status of the most recent generation run for a repository.
func (h *GenerationHandler) LatestRun(w http.ResponseWriter, r *http.Request) {
	root := r.URL.Query().Get("root")
	if root == "" {
		http.Error(w, "root query parameter is required", http.StatusBadRequest)
		return
	}

	repo, err := h.store.GetOrCreateRepository(r.Context(), root)
	if err != nil {
		h.logger.Error("failed to resolve repository", "error", err, "root", root)
		http.Error(w, "failed to resolve repository", http.StatusInternalServerError)
		return
	}

	run, err := h.store.GetLatestGenerationRun(r.Context(), repo.ID)
	if err != nil {
		http.Error(w, "no generation run found for this repository", http.StatusNotFound)
		return
	}

	writeJSON(w, run)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
