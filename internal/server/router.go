package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sevigo/wikigen/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
func NewRouter(deps Deps, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// The progress stream is long-lived by design, so it stays outside
		// the request-timeout group.
		progress := handler.NewProgressHandler(deps.Progress, logger)
		r.Get("/progress", progress.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			generation := handler.NewGenerationHandler(deps.Dispatcher, deps.Store, logger)
			r.Post("/generate", generation.Dispatch)
			r.Get("/runs/latest", generation.LatestRun)

			pages := handler.NewPagesHandler(deps.Store, deps.Pages, logger)
			r.Get("/pages", pages.List)
			r.Get("/pages/{slug}", pages.Get)

			notes := handler.NewNotesHandler(deps.Store, deps.Notes, deps.WikiPath, logger)
			r.Get("/notes", notes.List)
			r.Post("/notes", notes.Add)

			ask := handler.NewAskHandler(deps.QA, deps.Store, handler.AskConfig{
				WikiPath:         deps.WikiPath,
				EmbedderProvider: deps.EmbedderProvider,
				EmbedderModel:    deps.EmbedderModel,
			}, logger)
			r.Post("/ask", ask.Handle)
		})
	})

	return r
}
