package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/swarmfx/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var frameHeader = []string{"time", "particles", "bubbles", "mean_speed", "mean_life", "recycled"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

// RunMetadata describes one recorded headless session.
type RunMetadata struct {
	ID           string             `json:"id"`
	Preset       string             `json:"preset"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	TimeStep     float64            `json:"time_step"`
	Ticks        int                `json:"ticks"`
	Time         float64            `json:"time"`
	Swarms       int                `json:"swarms"`
	BubbleMasses int                `json:"bubble_masses"`
	Particles    int                `json:"particles"`
	Bubbles      int                `json:"bubbles"`
	Recycled     int                `json:"recycled"`
	Metrics      map[string]float64 `json:"metrics"`
}

// RunInfo is what the caller knows about a session before it runs.
type RunInfo struct {
	Preset       string
	Seed         int64
	TimeStep     float64
	Swarms       int
	BubbleMasses int
}

func (s *Store) Save(info RunInfo, result *sim.Result, frames []Frame) (string, error) {
	name := info.Preset
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Preset:       info.Preset,
		Timestamp:    now,
		Seed:         info.Seed,
		TimeStep:     info.TimeStep,
		Ticks:        result.Ticks,
		Time:         result.Time,
		Swarms:       info.Swarms,
		BubbleMasses: info.BubbleMasses,
		Particles:    result.Particles,
		Bubbles:      result.Bubbles,
		Recycled:     result.Recycled,
		Metrics:      result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), frames); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		row := []string{
			strconv.FormatFloat(fr.Time, 'f', 6, 64),
			strconv.Itoa(fr.Particles),
			strconv.Itoa(fr.Bubbles),
			strconv.FormatFloat(fr.MeanSpeed, 'f', 6, 64),
			strconv.FormatFloat(fr.MeanLife, 'f', 6, 64),
			strconv.Itoa(fr.Recycled),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads back the per-tick samples of a run. Malformed rows are
// skipped.
func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		fr, err := parseFrame(record)
		if err != nil {
			continue
		}
		frames = append(frames, fr)
	}

	return frames, nil
}

func parseFrame(record []string) (Frame, error) {
	var fr Frame
	if len(record) != len(frameHeader) {
		return fr, fmt.Errorf("expected %d fields, got %d", len(frameHeader), len(record))
	}
	var err error
	if fr.Time, err = strconv.ParseFloat(record[0], 64); err != nil {
		return fr, err
	}
	if fr.Particles, err = strconv.Atoi(record[1]); err != nil {
		return fr, err
	}
	if fr.Bubbles, err = strconv.Atoi(record[2]); err != nil {
		return fr, err
	}
	if fr.MeanSpeed, err = strconv.ParseFloat(record[3], 64); err != nil {
		return fr, err
	}
	if fr.MeanLife, err = strconv.ParseFloat(record[4], 64); err != nil {
		return fr, err
	}
	if fr.Recycled, err = strconv.Atoi(record[5]); err != nil {
		return fr, err
	}
	return fr, nil
}
