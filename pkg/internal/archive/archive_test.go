package archive

import (
	"strings"
	"testing"
	"time"

	"github.com/autolab/resonance/pkg/internal/types"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), WithClock(fixedClock))

	snap := types.SessionSnapshot{
		ExperimentID: 42,
		CurrentStep:  3,
		Completed:    true,
		Steps: []types.StepRecord{
			{
				StepNumber:   1,
				FrequencyHz:  2000,
				TemperatureC: 22,
				Status:       types.StepProcessed,
				SystemSpeed:  343.2,
				SystemGamma:  1.39,
				Minima:       []types.Minimum{{Position: 0.085, Amplitude: 0.02, Time: 1.1}},
			},
		},
	}

	path, err := store.Save(snap)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(path, "experiment_42_20260314T092653.json.gz") {
		t.Fatalf("unexpected archive name: %s", path)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ExperimentID != 42 || !loaded.Completed || len(loaded.Steps) != 1 {
		t.Fatalf("snapshot did not survive the round trip: %+v", loaded)
	}
	if loaded.Steps[0].Minima[0].Position != 0.085 {
		t.Fatalf("minima lost in the archive: %+v", loaded.Steps[0])
	}
}

func TestListFindsSavedArchives(t *testing.T) {
	store := NewStore(t.TempDir(), WithClock(fixedClock))

	if _, err := store.Save(types.SessionSnapshot{ExperimentID: 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	paths, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected one archive, got %v", paths)
	}
}

func TestLoadRejectsCorruptArchive(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load("/nonexistent/archive.json.gz"); err == nil {
		t.Fatalf("expected an error for a missing archive")
	}
}
