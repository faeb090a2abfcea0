// Package app initializes and orchestrates the main components of the
// wikigen application. It wires together configuration, storage, the LLM
// and embedding backends, the generation pipeline, the Q&A engine, the
// async job dispatcher and the HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/embeddings"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"
	"github.com/sevigo/goframe/parsers"

	"github.com/sevigo/wikigen/internal/config"
	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/db"
	"github.com/sevigo/wikigen/internal/index"
	"github.com/sevigo/wikigen/internal/jobs"
	"github.com/sevigo/wikigen/internal/llmadapt"
	"github.com/sevigo/wikigen/internal/orchestrate"
	"github.com/sevigo/wikigen/internal/parse"
	"github.com/sevigo/wikigen/internal/phases"
	"github.com/sevigo/wikigen/internal/qa"
	"github.com/sevigo/wikigen/internal/scan"
	"github.com/sevigo/wikigen/internal/server"
	"github.com/sevigo/wikigen/internal/storage"
)

// generationCallTimeout bounds a single phase prompt's LLM round trip.
const generationCallTimeout = 5 * time.Minute

// App holds the main application components and is the composition root
// for both the CLI and the HTTP surface.
type App struct {
	Store        storage.Store
	Pages        storage.PageStore
	Notes        storage.NotesStore
	Orchestrator *orchestrate.Orchestrator
	QA           *qa.Engine
	Progress     *orchestrate.ProgressBroker
	Cfg          *config.Config

	logger     *slog.Logger
	server     *server.Server
	dispatcher core.JobDispatcher
}

// newOllamaHTTPClient creates an HTTP client with longer timeouts for Ollama requests.
// Ollama can take a while to process requests, so we need more generous timeouts.
func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableKeepAlives:   false,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   15 * time.Minute,
	}
}

// NewApp sets up the application with all its dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, func(), error) {
	logger.Info("initializing wikigen application",
		"llm_provider", cfg.AI.LLMProvider,
		"embedder_provider", cfg.AI.EmbedderProvider,
		"generator_model", cfg.AI.GeneratorModel,
		"embedder_model", cfg.AI.EmbedderModel,
		"max_workers", cfg.Server.MaxWorkers,
	)

	dbConn, dbCleanup, err := initDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(dbConn.DB)
	pages := storage.NewPageStore(dbConn.DB)
	notes := storage.NewNotesStore(dbConn.DB)

	generatorLLM, err := llmadapt.NewModel(ctx, cfg.AI.LLMProvider, cfg.AI.GeneratorModel, cfg.AI.OllamaHost, cfg.AI.GeminiAPIKey)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create generator LLM: %w", err)
	}
	client := llmadapt.NewClient(generatorLLM, logger)

	embedder, err := createEmbedder(ctx, cfg, logger)
	if err != nil {
		dbCleanup()
		return nil, nil, err
	}

	parserRegistry, err := parsers.RegisterLanguagePlugins(logger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to register language parsers: %w", err)
	}
	parserReg := parse.New(parserRegistry, logger)

	promptMgr, err := llmadapt.NewPromptManager()
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}
	firewall := llmadapt.NewFirewall(cfg.Generation.FirewallMaxNonASCII)
	estimator := llmadapt.NewTokenEstimator(generatorLLM, cfg.Generation.TokensPerCharRatio, cfg.Generation.TokenOverheadPercent)

	vectorIndex := index.NewQdrantIndex(cfg.Storage.QdrantHost, embedder, logger)
	scanner := scan.New(logger, cfg.Generation.MaxFileSizeBytes)
	progressBroker := orchestrate.NewProgressBroker()

	phaseDeps := &phases.Deps{
		Client:   client,
		Prompts:  promptMgr,
		Firewall: firewall,
		Provider: llmadapt.ModelProvider(cfg.AI.LLMProvider),
		Timeout:  generationCallTimeout,
		Logger:   logger,
	}

	orchestrator := &orchestrate.Orchestrator{
		Scanner:          scanner,
		Parser:           parserReg,
		PhaseDeps:        phaseDeps,
		Store:            store,
		Pages:            pages,
		Notes:            notes,
		Index:            vectorIndex,
		Estimator:        estimator,
		Progress:         progressBroker,
		Logger:           logger,
		ParallelLimit:    cfg.Generation.ParallelLimit,
		WikiDirName:      cfg.Storage.WikiPath,
		ContextBudget:    cfg.Generation.ContextTokenBudget,
		EmbedderProvider: cfg.AI.EmbedderProvider,
		EmbedderModel:    cfg.AI.EmbedderModel,
	}

	qaEngine := &qa.Engine{
		Index:            vectorIndex,
		Pages:            pages,
		Notes:            notes,
		Client:           client,
		Prompts:          promptMgr,
		Firewall:         firewall,
		Provider:         llmadapt.ModelProvider(cfg.AI.LLMProvider),
		Timeout:          generationCallTimeout,
		Estimator:        estimator,
		ContextBudget:    cfg.Generation.ContextTokenBudget,
		TopK:             cfg.Generation.RetrievalTopK,
		EvidenceMinScore: cfg.Generation.EvidenceMinScore,
		Mode:             qa.GateMode(cfg.Generation.EvidenceGateMode),
		EnableHyDE:       cfg.AI.EnableHyDE,
		Logger:           logger,
	}

	generationJob := jobs.NewGenerationJob(orchestrator, logger)
	dispatcher := jobs.NewDispatcher(generationJob, cfg.Server.MaxWorkers, logger)

	httpServer := server.NewServer(ctx, cfg, server.Deps{
		Dispatcher:       dispatcher,
		Store:            store,
		Pages:            pages,
		Notes:            notes,
		QA:               qaEngine,
		Progress:         progressBroker,
		WikiPath:         cfg.Storage.WikiPath,
		EmbedderProvider: cfg.AI.EmbedderProvider,
		EmbedderModel:    cfg.AI.EmbedderModel,
	}, logger)

	logger.Info("wikigen application initialized successfully")
	return &App{
			Store:        store,
			Pages:        pages,
			Notes:        notes,
			Orchestrator: orchestrator,
			QA:           qaEngine,
			Progress:     progressBroker,
			logger:       logger,
			server:       httpServer,
			dispatcher:   dispatcher,
			Cfg:          cfg,
		}, func() {
			dbCleanup()
		}, nil
}

func createEmbedder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (embeddings.Embedder, error) {
	logger.Info("connecting to embedder", "provider", cfg.AI.EmbedderProvider, "model", cfg.AI.EmbedderModel)
	var embedderLLM embeddings.Embedder
	var err error

	switch cfg.AI.EmbedderProvider {
	case "gemini":
		embedderLLM, err = gemini.New(ctx,
			gemini.WithEmbeddingModel(cfg.AI.EmbedderModel),
			gemini.WithAPIKey(cfg.AI.GeminiAPIKey),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini embedder: %w", err)
		}
	case "ollama":
		embedderLLM, err = ollama.New(
			ollama.WithServerURL(cfg.AI.OllamaHost),
			ollama.WithModel(cfg.AI.EmbedderModel),
			ollama.WithHTTPClient(newOllamaHTTPClient()),
			ollama.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama embedder: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", cfg.AI.EmbedderProvider)
	}

	embedder, err := embeddings.NewEmbedder(embedderLLM)
	if err != nil {
		logger.Error("failed to create embedder service", "error", err)
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

// Start runs the HTTP progress/read surface.
func (a *App) Start() error {
	a.logger.Info("starting wikigen server", "server_port", a.Cfg.Server.Port, "max_workers", a.Cfg.Server.MaxWorkers)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly.
func (a *App) Stop() error {
	var shutdownErr error
	a.logger.Info("shutting down wikigen services")

	a.dispatcher.Stop()

	if a.server != nil {
		if serverErr := a.server.Stop(); serverErr != nil {
			a.logger.Error("error during HTTP server shutdown", "error", serverErr)
			shutdownErr = errors.Join(shutdownErr, serverErr)
		}
	}

	if shutdownErr != nil {
		a.logger.Error("wikigen stopped with errors", "error", shutdownErr)
	} else {
		a.logger.Info("wikigen stopped successfully")
	}
	return shutdownErr
}

// initDatabase connects to the DB and runs migrations.
func initDatabase(cfg *config.DBConfig) (*db.DB, func(), error) {
	dbConn, cleanup, err := db.NewDatabase(cfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbConn.RunMigrations(); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return dbConn, cleanup, nil
}
