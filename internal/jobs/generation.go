package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/wikigen/internal/core"
)

// runner is the subset of *orchestrate.Orchestrator a GenerationJob needs,
// kept as an interface so tests can substitute a fake orchestrator.
type runner interface {
	Run(ctx context.Context, root string, force bool) (*core.GenerationRun, error)
}

// GenerationJob runs the wiki generation pipeline for a single repository.
type GenerationJob struct {
	orchestrator runner
	logger       *slog.Logger
}

// NewGenerationJob creates a new GenerationJob with its dependencies.
func NewGenerationJob(orchestrator runner, logger *slog.Logger) core.Job {
	if orchestrator == nil || logger == nil {
		panic("NewGenerationJob received a nil dependency")
	}
	return &GenerationJob{orchestrator: orchestrator, logger: logger}
}

// Run executes a full generation pipeline run for the requested repository.
func (j *GenerationJob) Run(ctx context.Context, req *core.GenerationRequest) error {
	if err := j.validateInputs(req); err != nil {
		j.logger.Error("generation request validation failed", "error", err)
		return err
	}

	j.logger.Info("starting generation job", "repo", req.RepoRoot, "force", req.Force)
	run, err := j.orchestrator.Run(ctx, req.RepoRoot, req.Force)
	if err != nil {
		return fmt.Errorf("generation run failed for %s: %w", req.RepoRoot, err)
	}

	j.logger.Info("generation job completed", "repo", req.RepoRoot, "run_id", run.ID, "status", run.Status)
	return nil
}

func (j *GenerationJob) validateInputs(req *core.GenerationRequest) error {
	if req == nil {
		return errors.New("generation request cannot be nil")
	}
	if req.RepoRoot == "" {
		return errors.New("repository root cannot be empty")
	}
	return nil
}
