// Package store persists completed runs: one directory per run holding
// metadata JSON and a per-tick tracer series CSV.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hydroeco/hydrosim/internal/biogeo"
	"github.com/hydroeco/hydrosim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Profile   string             `json:"profile"`
	Lesson    string             `json:"lesson,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes one run directory and returns its ID. The series CSV carries
// every tracer mean plus the hypoxic fraction per tick.
func (s *Store) Save(profile, lesson string, dt float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", profile, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Profile:   profile,
		Lesson:    lesson,
		Timestamp: time.Now(),
		Dt:        dt,
		Steps:     result.StepsTaken,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "series.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"step", "clock_seconds"}
	header = append(header, biogeo.TracerNames...)
	header = append(header, "hypoxic_fraction")
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, snap := range result.Snapshots {
		row := []string{
			strconv.Itoa(snap.Step),
			strconv.FormatFloat(snap.Clock, 'f', 3, 64),
		}
		for _, name := range biogeo.TracerNames {
			row = append(row, strconv.FormatFloat(snap.Means[name], 'f', 6, 64))
		}
		row = append(row, strconv.FormatFloat(snap.HypoxicFraction, 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List scans the base directory for run metadata. Unreadable entries are
// skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Series is a loaded per-tick record set: one column slice per header name.
type Series struct {
	Headers []string
	Rows    [][]float64
}

// Column returns the values for a named column, or nil when absent.
func (sr *Series) Column(name string) []float64 {
	for i, h := range sr.Headers {
		if h != name {
			continue
		}
		out := make([]float64, 0, len(sr.Rows))
		for _, row := range sr.Rows {
			if i < len(row) {
				out = append(out, row[i])
			}
		}
		return out
	}
	return nil
}

// LoadSeries reads a run's tracer series back.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Series{Headers: []string{}, Rows: [][]float64{}}, nil
	}

	series := &Series{
		Headers: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, cell := range record {
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		series.Rows = append(series.Rows, row)
	}
	return series, nil
}
