package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sevigo/wikigen/internal/index"
	"github.com/sevigo/wikigen/internal/qa"
	"github.com/sevigo/wikigen/internal/storage"
)

// AskConfig carries the configuration the ask endpoint needs to resolve a
// repository's index collection and verify embedding provenance.
type AskConfig struct {
	WikiPath         string
	EmbedderProvider string
	EmbedderModel    string
}

// AskHandler answers grounded questions about an already-generated repository.
type AskHandler struct {
	engine *qa.Engine
	store  storage.Store
	cfg    AskConfig
	logger *slog.Logger
}

func NewAskHandler(engine *qa.Engine, store storage.Store, cfg AskConfig, logger *slog.Logger) *AskHandler {
	return &AskHandler{engine: engine, store: store, cfg: cfg, logger: logger}
}

type askRequest struct {
	Root     string           `json:"root"`
	Question string           `json:"question"`
	History  []qa.HistoryTurn `json:"history"`
}

type askResponse struct {
	*qa.Answer
	EmbedderWarning string `json:"embedder_warning,omitempty"`
}

// Handle answers a question, responding 422 when the engine returns an
// error, including the evidence gate's refusal when fewer than two
// retrieved results clear the configured score floor. A mismatch between the recorded
// index embedder and the active configuration is surfaced as a warning on
// the response; it never triggers an automatic reindex.
func (h *AskHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Root == "" || req.Question == "" {
		http.Error(w, "root and question are required", http.StatusBadRequest)
		return
	}

	repo, err := h.store.GetOrCreateRepository(r.Context(), req.Root)
	if err != nil {
		http.Error(w, "failed to resolve repository", http.StatusInternalServerError)
		return
	}
	collection := index.CollectionName(req.Root, h.cfg.EmbedderModel)

	metaDir := filepath.Join(req.Root, h.cfg.WikiPath, "meta")
	warning, err := index.CheckEmbeddingMetadata(metaDir, h.cfg.EmbedderProvider, h.cfg.EmbedderModel)
	if err != nil {
		h.logger.Warn("failed to verify embedding metadata", "error", err, "root", req.Root)
	}
	if warning != "" {
		h.logger.Warn("embedding model mismatch", "root", req.Root, "detail", warning)
	}

	answer, err := h.engine.Answer(r.Context(), repo.ID, collection, req.Question, req.History)
	if err != nil {
		h.logger.Warn("question could not be answered", "error", err, "root", req.Root)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, askResponse{Answer: answer, EmbedderWarning: warning})
}
