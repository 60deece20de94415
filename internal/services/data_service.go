package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"datalens/internal/dataset"
	"datalens/internal/infrastructure"
	"datalens/internal/store"
)

// UploadResult is the payload returned after an upload is processed
type UploadResult struct {
	dataset.Analysis
	CleaningReport       dataset.CleaningReport `json:"cleaning_report"`
	FileFormat           string                 `json:"file_format"`
	Tables               dataset.Tables         `json:"tables"`
	CleanedDataAvailable bool                   `json:"cleaned_data_available"`
	FilenameCleaned      string                 `json:"filename_cleaned"`
	SupportedFormats     map[string]string      `json:"supported_formats"`
}

// currentDataset is the most recently processed upload, kept in memory
// for the analytics and export endpoints.
type currentDataset struct {
	filename string
	frame    *dataset.Frame
	analysis dataset.Analysis
	tables   dataset.Tables
	cleaning dataset.CleaningReport
}

// DataService processes uploads and serves the resulting dataset
type DataService struct {
	store   *store.Store
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger

	mu      sync.RWMutex
	current *currentDataset
}

// NewDataService creates a data service backed by the given store
func NewDataService(st *store.Store, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DataService {
	return &DataService{
		store:   st,
		metrics: metrics,
		logger:  logger,
	}
}

// ProcessUpload reads, cleans and analyzes an uploaded file. The
// cleaned dataset replaces the current one. Metadata persistence
// failures are logged but do not fail the upload.
func (s *DataService) ProcessUpload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	start := time.Now()

	format := dataset.DetectFormat(filename)
	if format == dataset.FormatUnknown {
		return nil, fmt.Errorf("%w: %s (supported: %v)",
			ErrUnsupportedFormat, filename, dataset.SupportedFormats())
	}

	counted := &countingReader{r: r}
	frame, err := dataset.Read(counted, filename)
	if err != nil {
		if errors.Is(err, dataset.ErrEmpty) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("file processing failed: %w", err)
	}

	cleaned, cleaningReport, err := dataset.Clean(frame)
	if err != nil {
		return nil, fmt.Errorf("cleaning failed: %w", err)
	}

	analysis := dataset.Analyze(cleaned)
	tables := dataset.BuildTables(cleaned)

	s.mu.Lock()
	s.current = &currentDataset{
		filename: filename,
		frame:    cleaned,
		analysis: analysis,
		tables:   tables,
		cleaning: cleaningReport,
	}
	s.mu.Unlock()

	if s.store != nil {
		_, saveErr := s.store.SaveDataset(store.DatasetRecord{
			Filename:   filename,
			Rows:       analysis.Rows,
			Columns:    analysis.Columns,
			FileFormat: string(format),
		})
		if saveErr != nil {
			s.logger.WarnContext(ctx, "dataset metadata not saved",
				"filename", filename,
				"error", saveErr,
			)
		}
	}

	rowsRemoved := cleaningReport.Cleaned.RowsRemoved
	s.metrics.RecordUpload(ctx, string(format), counted.n, time.Since(start), rowsRemoved, nil)

	s.logger.InfoContext(ctx, "upload processed",
		"filename", filename,
		"format", format,
		"rows", analysis.Rows,
		"columns", analysis.Columns,
		"rows_removed", rowsRemoved,
		"duration", time.Since(start).String(),
	)

	return &UploadResult{
		Analysis:             analysis,
		CleaningReport:       cleaningReport,
		FileFormat:           string(format),
		Tables:               tables,
		CleanedDataAvailable: true,
		FilenameCleaned:      "cleaned_" + filename,
		SupportedFormats:     dataset.FormatDescriptions(),
	}, nil
}

// Current returns the most recently processed dataset
func (s *DataService) Current() (string, *dataset.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", nil, ErrNoCleanedData
	}
	return s.current.filename, s.current.frame, nil
}

// CurrentReport returns everything needed to render a report for the
// most recently processed dataset.
func (s *DataService) CurrentReport() (string, *dataset.Frame, dataset.Analysis, dataset.Tables, dataset.CleaningReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", nil, dataset.Analysis{}, dataset.Tables{}, dataset.CleaningReport{}, ErrNoCleanedData
	}
	c := s.current
	return c.filename, c.frame, c.analysis, c.tables, c.cleaning, nil
}

// SupportedFormats describes the accepted upload formats
func (s *DataService) SupportedFormats() map[string]string {
	return dataset.FormatDescriptions()
}

// countingReader tracks how many bytes were consumed from an upload
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// History lists metadata for previously processed uploads
func (s *DataService) History(ctx context.Context) ([]store.DatasetRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	records, err := s.store.ListDatasets()
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	return records, nil
}
