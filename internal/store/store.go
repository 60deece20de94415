// Package store persists upload and prediction metadata as JSON files
// under the configured data directory.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	datasetsFile    = "datasets.json"
	predictionsFile = "predictions.json"
)

// DatasetRecord is the stored metadata for one processed upload
type DatasetRecord struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	FileFormat string    `json:"file_format"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PredictionRecord is the stored metadata for one served prediction
type PredictionRecord struct {
	ID        string    `json:"id"`
	Features  []float64 `json:"features"`
	Result    float64   `json:"result"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a mutex-guarded JSON file store. Writes go through a temp
// file and rename so a crash never leaves a half-written file behind.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
}

// New creates a store rooted at dir, creating the directory if needed
func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// SaveDataset appends a dataset record and returns it with ID and
// timestamp filled in.
func (s *Store) SaveDataset(record DatasetRecord) (DatasetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = uuid.New().String()
	record.UploadedAt = time.Now().UTC()

	var records []DatasetRecord
	if err := s.readFile(datasetsFile, &records); err != nil {
		return DatasetRecord{}, err
	}
	records = append(records, record)

	if err := s.writeFile(datasetsFile, records); err != nil {
		return DatasetRecord{}, err
	}

	s.logger.Debug("dataset record saved",
		"id", record.ID,
		"filename", record.Filename,
		"rows", record.Rows,
	)
	return record, nil
}

// ListDatasets returns all stored dataset records, newest last
func (s *Store) ListDatasets() ([]DatasetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []DatasetRecord
	if err := s.readFile(datasetsFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SavePrediction appends a prediction record and returns it with ID
// and timestamp filled in.
func (s *Store) SavePrediction(record PredictionRecord) (PredictionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = uuid.New().String()
	record.CreatedAt = time.Now().UTC()

	var records []PredictionRecord
	if err := s.readFile(predictionsFile, &records); err != nil {
		return PredictionRecord{}, err
	}
	records = append(records, record)

	if err := s.writeFile(predictionsFile, records); err != nil {
		return PredictionRecord{}, err
	}
	return record, nil
}

// ListPredictions returns all stored prediction records, newest last
func (s *Store) ListPredictions() ([]PredictionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []PredictionRecord
	if err := s.readFile(predictionsFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// readFile decodes a JSON file into v; a missing file is not an error
func (s *Store) readFile(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// writeFile atomically replaces a JSON file via temp file and rename
func (s *Store) writeFile(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
