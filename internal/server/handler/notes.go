package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/storage"
)

// NotesHandler lets maintainers read and add the notes that drive the
// re-documentation loop.
type NotesHandler struct {
	store    storage.Store
	notes    storage.NotesStore
	wikiPath string
	logger   *slog.Logger
}

func NewNotesHandler(store storage.Store, notes storage.NotesStore, wikiPath string, logger *slog.Logger) *NotesHandler {
	return &NotesHandler{store: store, notes: notes, wikiPath: wikiPath, logger: logger}
}

// List returns every note recorded for a repository.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	root := r.URL.Query().Get("root")
	if root == "" {
		http.Error(w, "root query parameter is required", http.StatusBadRequest)
		return
	}

	repo, err := h.store.GetOrCreateRepository(r.Context(), root)
	if err != nil {
		http.Error(w, "failed to resolve repository", http.StatusInternalServerError)
		return
	}

	notes, err := h.notes.ListNotes(r.Context(), repo.ID)
	if err != nil {
		h.logger.Error("failed to list notes", "error", err, "root", root)
		http.Error(w, "failed to list notes", http.StatusInternalServerError)
		return
	}

	writeJSON(w, notes)
}

type addNoteRequest struct {
	Root   string `json:"root"`
	Scope  string `json:"scope"`
	Target string `json:"target"`
	Body   string `json:"body"`
}

// Add records a maintainer note, which the orchestrator treats as a
// cascade-invalidation trigger for scoped notes on the next run.
func (h *NotesHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Root == "" || req.Body == "" {
		http.Error(w, "root and body are required", http.StatusBadRequest)
		return
	}

	repo, err := h.store.GetOrCreateRepository(r.Context(), req.Root)
	if err != nil {
		http.Error(w, "failed to resolve repository", http.StatusInternalServerError)
		return
	}

	note, err := h.notes.AddNote(r.Context(), repo.ID, core.NoteScope(req.Scope), req.Target, req.Body)
	if err != nil {
		h.logger.Error("failed to add note", "error", err, "root", req.Root)
		http.Error(w, "failed to add note", http.StatusInternalServerError)
		return
	}

	if _, err := storage.WriteNoteFile(filepath.Join(req.Root, h.wikiPath, "notes"), note); err != nil {
		h.logger.Warn("failed to mirror note to disk, database row is recorded", "error", err)
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, note)
}
