package jobs

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/wikigen/internal/core"
)

type fakeRunner struct {
	run func(ctx context.Context, root string, force bool) (*core.GenerationRun, error)
}

func (f *fakeRunner) Run(ctx context.Context, root string, force bool) (*core.GenerationRun, error) {
	return f.run(ctx, root, force)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestGenerationJob_Run_Success(t *testing.T) {
	var gotRoot string
	var gotForce bool
	runner := &fakeRunner{run: func(_ context.Context, root string, force bool) (*core.GenerationRun, error) {
		gotRoot, gotForce = root, force
		return &core.GenerationRun{ID: 1, Status: core.RunCompleted}, nil
	}}

	job := NewGenerationJob(runner, testLogger())
	err := job.Run(context.Background(), &core.GenerationRequest{RepoRoot: "/repo", Force: true})

	require.NoError(t, err)
	assert.Equal(t, "/repo", gotRoot)
	assert.True(t, gotForce)
}

func TestGenerationJob_Run_RejectsEmptyRoot(t *testing.T) {
	runner := &fakeRunner{run: func(context.Context, string, bool) (*core.GenerationRun, error) {
		t.Fatal("orchestrator should not run for an invalid request")
		return nil, nil
	}}

	job := NewGenerationJob(runner, testLogger())
	err := job.Run(context.Background(), &core.GenerationRequest{RepoRoot: ""})

	assert.Error(t, err)
}

func TestGenerationJob_Run_RejectsNilRequest(t *testing.T) {
	runner := &fakeRunner{run: func(context.Context, string, bool) (*core.GenerationRun, error) {
		t.Fatal("orchestrator should not run for a nil request")
		return nil, nil
	}}

	job := NewGenerationJob(runner, testLogger())
	err := job.Run(context.Background(), nil)

	assert.Error(t, err)
}

func TestGenerationJob_Run_WrapsOrchestratorError(t *testing.T) {
	runner := &fakeRunner{run: func(context.Context, string, bool) (*core.GenerationRun, error) {
		return nil, assert.AnError
	}}

	job := NewGenerationJob(runner, testLogger())
	err := job.Run(context.Background(), &core.GenerationRequest{RepoRoot: "/repo"})

	assert.Error(t, err)
}
