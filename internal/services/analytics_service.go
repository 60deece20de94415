package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"datalens/internal/dataset"
)

// NumericStats summarizes one numeric column for the analytics API
type NumericStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q25    float64 `json:"q25"`
	Q75    float64 `json:"q75"`
}

// Summary is the analytics overview of an uploaded dataset
type Summary struct {
	TotalRows          int                     `json:"total_rows"`
	TotalColumns       int                     `json:"total_columns"`
	MemoryUsage        string                  `json:"memory_usage"`
	NumericColumns     int                     `json:"numeric_columns"`
	CategoricalColumns int                     `json:"categorical_columns"`
	MissingValues      map[string]int          `json:"missing_values"`
	DuplicateRows      int                     `json:"duplicate_rows"`
	NumericStats       map[string]NumericStats `json:"numeric_stats"`
}

// Distribution holds binned values of one numeric column
type Distribution struct {
	Column   string    `json:"column"`
	BinEdges []float64 `json:"bin_edges"`
	Counts   []int     `json:"counts"`
}

// AnalyticsService computes summaries over uploaded datasets
type AnalyticsService struct {
	data   *DataService
	logger *slog.Logger
}

// NewAnalyticsService creates an analytics service reading from the
// data service's current dataset.
func NewAnalyticsService(data *DataService, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{data: data, logger: logger}
}

// Summarize reads an uploaded file and computes its summary without
// touching the current dataset.
func (s *AnalyticsService) Summarize(ctx context.Context, filename string, r io.Reader) (*Summary, error) {
	frame, err := dataset.Read(r, filename)
	if err != nil {
		if errors.Is(err, dataset.ErrEmpty) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	summary := buildSummary(frame)
	s.logger.InfoContext(ctx, "summary computed",
		"filename", filename,
		"rows", summary.TotalRows,
		"columns", summary.TotalColumns,
	)
	return summary, nil
}

// buildSummary profiles a frame into the analytics summary shape
func buildSummary(f *dataset.Frame) *Summary {
	missing := make(map[string]int, f.NumCols())
	for i, col := range f.Columns() {
		missing[col] = f.MissingCount(i)
	}

	numericStats := make(map[string]NumericStats)
	for _, col := range f.NumericColumns() {
		values, _ := f.NumericValues(col)
		numericStats[col] = NumericStats{
			Mean:   dataset.Mean(values),
			Median: dataset.Median(values),
			Std:    dataset.SampleStd(values),
			Min:    dataset.Min(values),
			Max:    dataset.Max(values),
			Q25:    dataset.Quantile(values, 0.25),
			Q75:    dataset.Quantile(values, 0.75),
		}
	}

	return &Summary{
		TotalRows:          f.NumRows(),
		TotalColumns:       f.NumCols(),
		MemoryUsage:        fmt.Sprintf("%.2f KB", f.MemoryUsageMB()*1024),
		NumericColumns:     len(f.NumericColumns()),
		CategoricalColumns: len(f.CategoricalColumns()),
		MissingValues:      missing,
		DuplicateRows:      f.DuplicateRowCount(),
		NumericStats:       numericStats,
	}
}

// Correlation returns the correlation matrix of the current dataset
func (s *AnalyticsService) Correlation(ctx context.Context) (map[string]map[string]float64, error) {
	_, frame, err := s.data.Current()
	if err != nil {
		return nil, err
	}

	matrix := dataset.CorrelationMatrix(frame)
	if matrix == nil {
		return nil, ErrNoNumericColumns
	}
	return matrix, nil
}

// Distribute bins one numeric column of the current dataset
func (s *AnalyticsService) Distribute(ctx context.Context, column string, bins int) (*Distribution, error) {
	_, frame, err := s.data.Current()
	if err != nil {
		return nil, err
	}

	t, err := frame.TypeOf(column)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	if !t.IsNumeric() {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotNumeric, column)
	}

	values, err := frame.NumericValues(column)
	if err != nil {
		return nil, err
	}

	edges, counts := dataset.Histogram(values, bins)
	return &Distribution{
		Column:   column,
		BinEdges: edges,
		Counts:   counts,
	}, nil
}
