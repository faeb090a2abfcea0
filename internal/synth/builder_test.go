package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/wikigen/internal/core"
	"github.com/sevigo/wikigen/internal/llmadapt"
)

type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeGenerator) Generate(_ context.Context, _ llmadapt.PromptKey, _ any) (string, error) {
	i := f.calls
	f.calls++
	var resp string
	var err error
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return resp, err
}

func sampleFiles() []core.FileSummary {
	return []core.FileSummary{
		{Path: "internal/api/handler.go", Purpose: "Routes requests.", Layer: core.LayerAPI},
		{Path: "internal/domain/order.go", Purpose: "Order aggregate.", Layer: core.LayerDomain},
		{Path: "internal/domain/order_test.go", Purpose: "Order tests.", Layer: core.LayerTest},
	}
}

func sampleDirs() []core.DirectorySummary {
	return []core.DirectorySummary{
		{Path: "internal/api", Purpose: "HTTP surface."},
		{Path: "internal/domain", Purpose: "Business logic."},
	}
}

func TestBuild_LayerGroupingIsDeterministic(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"```json\n{\"key_components\":[],\"dependency_graph\":{},\"project_summary\":\"\"}\n```"}}
	estimator := llmadapt.NewTokenEstimator(nil, 0.25, 0)

	m := Build(context.Background(), gen, estimator, 0, sampleDirs(), sampleFiles(), nil, nil)

	require.Contains(t, m.Layers, "api")
	require.Contains(t, m.Layers, "domain")
	assert.Equal(t, []string{"internal/api/handler.go"}, m.Layers["api"].Files)
	assert.Equal(t, []string{"internal/api"}, m.Layers["api"].Directories)
	// internal/domain has two child files, one domain and one test; the 1-1 tie goes to domain, first alphabetically.
	assert.Equal(t, []string{"internal/domain"}, m.Layers["domain"].Directories)
}

func TestBuild_MergesAcrossBatches(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"```json\n{\"key_components\":[{\"name\":\"Handler\",\"file\":\"internal/api/handler.go\",\"role\":\"routes requests\",\"layer\":\"api\"}],\"dependency_graph\":{\"api\":[\"domain\"]},\"project_summary\":\"short\"}\n```",
		"```json\n{\"key_components\":[{\"name\":\"Handler\",\"file\":\"internal/api/handler.go\",\"role\":\"duplicate, ignored\",\"layer\":\"api\"},{\"name\":\"Order\",\"file\":\"internal/domain/order.go\",\"role\":\"order aggregate\",\"layer\":\"domain\"}],\"dependency_graph\":{\"domain\":[]},\"project_summary\":\"a longer summary that should win\"}\n```",
	}}
	estimator := llmadapt.NewTokenEstimator(nil, 0.25, 0)

	// a tiny budget forces one item per batch; only the first two batches
	// get a response from the fake generator, the rest fail to parse and
	// are skipped, which is enough to exercise the merge across batches.
	m := Build(context.Background(), gen, estimator, 1, sampleDirs(), sampleFiles(), nil, nil)

	require.Len(t, m.KeyComponents, 2)
	assert.Equal(t, "Handler", m.KeyComponents[0].Name)
	assert.Equal(t, "Order", m.KeyComponents[1].Name)
	assert.Equal(t, []string{"domain"}, m.DependencyGraph["api"])
	assert.Equal(t, "a longer summary that should win", m.ProjectSummary)
}

func TestBuild_BatchFailureKeepsAlgorithmicLayersOnly(t *testing.T) {
	gen := &fakeGenerator{errs: []error{errors.New("model unavailable")}}
	estimator := llmadapt.NewTokenEstimator(nil, 0.25, 0)

	m := Build(context.Background(), gen, estimator, 0, sampleDirs(), sampleFiles(), nil, nil)

	assert.Empty(t, m.KeyComponents)
	assert.Empty(t, m.ProjectSummary)
	assert.Contains(t, m.Layers, "api")
}

func TestBuild_MalformedResponseKeepsAlgorithmicLayersOnly(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"not valid json"}}
	estimator := llmadapt.NewTokenEstimator(nil, 0.25, 0)

	m := Build(context.Background(), gen, estimator, 0, sampleDirs(), sampleFiles(), nil, nil)

	assert.Empty(t, m.KeyComponents)
	assert.Contains(t, m.Layers, "domain")
}

func TestBatch_SplitsOnBudget(t *testing.T) {
	estimator := llmadapt.NewTokenEstimator(nil, 0.25, 0)
	files := sampleFiles()

	batches := Batch(estimator, files, 1)
	assert.Len(t, batches, len(files))

	single := Batch(estimator, files, 0)
	require.Len(t, single, 1)
	assert.Len(t, single[0], len(files))
}
