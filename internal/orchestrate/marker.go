package orchestrate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/sevigo/wikigen/internal/core"
)

// Marker status values. A marker found in "running" state with no live
// worker holding the repository lock is promoted to "incomplete" at the
// start of the next run. That run still starts from the first phase; its
// LastPhase is only logged.
const (
	markerRunning    = "running"
	markerIncomplete = "incomplete"
)

// marker is the crash/resume state written to disk after every phase
// commits its results to the database, so the next run can tell that a
// process was killed mid-run and which phase it last completed. The next
// run does not skip phases; per-target hash checks keep it from redoing
// pages the interrupted run already committed.
type marker struct {
	RunID     int64      `json:"run_id"`
	Status    string     `json:"status"`
	LastPhase core.Phase `json:"last_phase"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func markerPath(wikiDir string) string {
	return filepath.Join(wikiDir, "generation.marker")
}

func readMarker(wikiDir string) (*marker, error) {
	data, err := os.ReadFile(markerPath(wikiDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func writeMarker(wikiDir string, m marker) error {
	if err := os.MkdirAll(wikiDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := markerPath(wikiDir) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, markerPath(wikiDir))
}

func removeMarker(wikiDir string) error {
	err := os.Remove(markerPath(wikiDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// phaseIndex returns the position of p in core.Phases, or -1 if unknown.
func phaseIndex(p core.Phase) int {
	for i, candidate := range core.Phases {
		if candidate == p {
			return i
		}
	}
	return -1
}
