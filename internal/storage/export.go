package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Steps  int         `json:"steps"`
	Frames []Frame     `json:"frames"`
}

func (s *Store) export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Steps: len(frames), Frames: frames}, nil
}

// ExportJSON writes a run and its frames to path as one JSON document.
func (s *Store) ExportJSON(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return s.ExportJSONTo(runID, file)
}

func (s *Store) ExportJSONTo(runID string, w io.Writer) error {
	data, err := s.export(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
