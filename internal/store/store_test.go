package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hydroeco/hydrosim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Snapshots: []sim.Snapshot{
			{
				Step:  1,
				Clock: 0.5,
				Means: map[string]float64{
					"nutrient": 10.0, "phytoplankton": 1.0, "zooplankton": 0.5,
					"detritus": 0.1, "dissolved_oxygen": 8.0, "ph": 8.1,
					"bod": 1.0, "temperature": 20.0,
				},
				HypoxicFraction: 0.0,
			},
			{
				Step:  2,
				Clock: 1.0,
				Means: map[string]float64{
					"nutrient": 9.5, "phytoplankton": 1.1, "zooplankton": 0.5,
					"detritus": 0.1, "dissolved_oxygen": 7.8, "ph": 8.1,
					"bod": 1.0, "temperature": 20.1,
				},
				HypoxicFraction: 0.25,
			},
		},
		Metrics:    map[string]float64{"bloom_peak": 1.1},
		StepsTaken: 2,
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	runID, err := s.Save("urban_lake", "lake_bod_shock", 0.5, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Profile != "urban_lake" || meta.Lesson != "lake_bod_shock" {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Steps != 2 || meta.Metrics["bloom_peak"] != 1.1 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
}

func TestLoadSeriesColumns(t *testing.T) {
	s := New(t.TempDir())
	runID, err := s.Save("urban_lake", "", 0.5, sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	series, err := s.LoadSeries(runID)
	if err != nil {
		t.Fatalf("LoadSeries: %v", err)
	}
	if len(series.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(series.Rows))
	}

	do := series.Column("dissolved_oxygen")
	if len(do) != 2 || do[0] != 8.0 || do[1] != 7.8 {
		t.Errorf("unexpected DO column: %v", do)
	}
	hf := series.Column("hypoxic_fraction")
	if len(hf) != 2 || hf[1] != 0.25 {
		t.Errorf("unexpected hypoxic fraction column: %v", hf)
	}
	if series.Column("salinity") != nil {
		t.Error("unknown column should be nil")
	}
}

func TestListSkipsForeignEntries(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if _, err := s.Save("cold_river", "", 0.1, sampleResult()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A stray file and a directory without metadata must not break listing.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "not_a_run"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 || runs[0].Profile != "cold_river" {
		t.Errorf("unexpected listing: %+v", runs)
	}
}

func TestListMissingDir(t *testing.T) {
	s := New("/nonexistent/path/for/test")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty listing, got %+v", runs)
	}
}
