package orchestrate

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/wikigen/internal/core"
)

func TestMarker_WriteReadRoundTrip(t *testing.T) {
	wikiDir := filepath.Join(t.TempDir(), "wiki")

	m := marker{RunID: 42, LastPhase: core.PhaseDirectories, UpdatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, writeMarker(wikiDir, m))

	got, err := readMarker(wikiDir)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.LastPhase, got.LastPhase)
	assert.True(t, m.UpdatedAt.Equal(got.UpdatedAt))
}

func TestMarker_ReadMissingReturnsNilNotError(t *testing.T) {
	m, err := readMarker(filepath.Join(t.TempDir(), "wiki"))
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMarker_Remove(t *testing.T) {
	wikiDir := filepath.Join(t.TempDir(), "wiki")
	require.NoError(t, writeMarker(wikiDir, marker{RunID: 1, LastPhase: core.PhaseAnalysis}))

	require.NoError(t, removeMarker(wikiDir))

	got, err := readMarker(wikiDir)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Removing an already-absent marker is not an error.
	assert.NoError(t, removeMarker(wikiDir))
}

func TestPhaseIndex(t *testing.T) {
	assert.Equal(t, 0, phaseIndex(core.PhaseAnalysis))
	assert.Equal(t, len(core.Phases)-1, phaseIndex(core.PhaseIndexing))
	assert.Equal(t, -1, phaseIndex(core.Phase("not-a-real-phase")))
}
