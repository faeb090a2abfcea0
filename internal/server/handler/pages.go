package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/storage"
)

// PagesHandler serves the promoted, read-only wiki pages for a repository.
type PagesHandler struct {
	store  storage.Store
	pages  storage.PageStore
	logger *slog.Logger
}

func NewPagesHandler(store storage.Store, pages storage.PageStore, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{store: store, pages: pages, logger: logger}
}

// List returns every generated page of the requested kind for a repository.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	root := r.URL.Query().Get("root")
	if root == "" {
		http.Error(w, "root query parameter is required", http.StatusBadRequest)
		return
	}
	kind := core.PageKind(r.URL.Query().Get("kind"))

	repo, err := h.store.GetOrCreateRepository(r.Context(), root)
	if err != nil {
		http.Error(w, "failed to resolve repository", http.StatusInternalServerError)
		return
	}

	pages, err := h.pages.ListPages(r.Context(), repo.ID, kind)
	if err != nil {
		h.logger.Error("failed to list pages", "error", err, "root", root)
		http.Error(w, "failed to list pages", http.StatusInternalServerError)
		return
	}

	writeJSON(w, pages)
}

// Get returns a single page by slug.
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	root := r.URL.Query().Get("root")
	slug := chi.URLParam(r, "slug")
	if root == "" || slug == "" {
		http.Error(w, "root query parameter and slug are required", http.StatusBadRequest)
		return
	}

	repo, err := h.store.GetOrCreateRepository(r.Context(), root)
	if err != nil {
		http.Error(w, "failed to resolve repository", http.StatusInternalServerError)
		return
	}

	page, err := h.pages.GetPageBySlug(r.Context(), repo.ID, slug)
	if err != nil {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	writeJSON(w, page)
}
