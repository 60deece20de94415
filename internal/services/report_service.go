package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"datalens/internal/exporter"
	"datalens/internal/files"
	"datalens/internal/infrastructure"
)

// maxArchivedReports caps how many generated reports are kept on disk
const maxArchivedReports = 50

// ReportFormat identifies one downloadable report rendering
type ReportFormat string

const (
	ReportCleanedCSV  ReportFormat = "cleaned-csv"
	ReportCleanedJSON ReportFormat = "cleaned-json"
	ReportCleanedXLSX ReportFormat = "cleaned-xlsx"
	ReportXLSX        ReportFormat = "report-xlsx"
	ReportPDF         ReportFormat = "report-pdf"
)

// allReportFormats is the order GenerateAll renders in
var allReportFormats = []ReportFormat{
	ReportCleanedCSV,
	ReportCleanedJSON,
	ReportCleanedXLSX,
	ReportXLSX,
	ReportPDF,
}

// Export describes one rendered report for the download response
type Export struct {
	Filename    string
	ContentType string
}

// GeneratedReport describes one file written by GenerateAll
type GeneratedReport struct {
	Format   string `json:"format"`
	Filename string `json:"filename"`
	Error    string `json:"error,omitempty"`
}

// ReportService renders the current dataset in downloadable formats
type ReportService struct {
	data       *DataService
	reportsDir string
	archive    *files.Archive
	metrics    *infrastructure.BusinessMetrics
	logger     *slog.Logger
}

// NewReportService creates the report service writing to reportsDir
func NewReportService(data *DataService, reportsDir string, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ReportService {
	return &ReportService{
		data:       data,
		reportsDir: reportsDir,
		archive:    files.NewArchive(reportsDir),
		metrics:    metrics,
		logger:     logger,
	}
}

// Render writes the requested format for the current dataset to w and
// returns the suggested download filename and content type.
func (s *ReportService) Render(ctx context.Context, format ReportFormat, w io.Writer) (Export, error) {
	filename, frame, analysis, tables, cleaning, err := s.data.CurrentReport()
	if err != nil {
		return Export{}, err
	}

	report := exporter.ReportData{
		Filename: filename,
		Frame:    frame,
		Analysis: analysis,
		Tables:   tables,
		Cleaning: cleaning,
	}
	now := time.Now()

	var export Export
	switch format {
	case ReportCleanedCSV:
		export = Export{
			Filename:    exporter.CleanedFilename(filename, "csv", now),
			ContentType: "text/csv",
		}
		err = exporter.WriteCSV(w, frame, exporter.CSVOptions{BOMPrefix: true})
	case ReportCleanedJSON:
		export = Export{
			Filename:    exporter.CleanedFilename(filename, "json", now),
			ContentType: "application/json",
		}
		err = exporter.WriteJSON(w, frame)
	case ReportCleanedXLSX:
		export = Export{
			Filename:    exporter.CleanedFilename(filename, "xlsx", now),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}
		err = exporter.WriteWorkbook(w, report)
	case ReportXLSX:
		export = Export{
			Filename:    exporter.ReportFilename(filename, "xlsx", now),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}
		err = exporter.WriteWorkbook(w, report)
	case ReportPDF:
		export = Export{
			Filename:    exporter.ReportFilename(filename, "pdf", now),
			ContentType: "application/pdf",
		}
		err = exporter.WritePDF(w, report)
	default:
		return Export{}, fmt.Errorf("%w: %s", ErrUnknownReportFormat, format)
	}

	s.metrics.RecordReport(ctx, string(format), err)
	if err != nil {
		return Export{}, fmt.Errorf("rendering %s: %w", format, err)
	}

	s.logger.InfoContext(ctx, "report rendered",
		"format", format,
		"filename", export.Filename,
	)
	return export, nil
}

// GenerateAll renders every format concurrently into the reports
// directory. Individual failures are reported per format instead of
// aborting the batch.
func (s *ReportService) GenerateAll(ctx context.Context) ([]GeneratedReport, error) {
	if _, _, err := s.data.Current(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}

	var mu sync.Mutex
	results := make([]GeneratedReport, 0, len(allReportFormats))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for _, format := range allReportFormats {
		format := format
		g.Go(func() error {
			result := s.generateOne(gctx, format)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if removed, err := s.archive.Prune(maxArchivedReports); err != nil {
		s.logger.WarnContext(ctx, "report archive prune failed", "error", err)
	} else if removed > 0 {
		s.logger.InfoContext(ctx, "report archive pruned", "removed", removed)
	}

	// Deterministic order for the response
	ordered := make([]GeneratedReport, 0, len(results))
	for _, format := range allReportFormats {
		for _, r := range results {
			if r.Format == string(format) {
				ordered = append(ordered, r)
			}
		}
	}
	return ordered, nil
}

// ListGenerated returns the reports currently in the archive, newest
// first
func (s *ReportService) ListGenerated(ctx context.Context) ([]files.ReportFile, error) {
	reports, err := s.archive.List()
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	return reports, nil
}

// OpenGenerated opens one archived report for download. The caller
// closes the returned reader.
func (s *ReportService) OpenGenerated(ctx context.Context, name string) (io.ReadCloser, Export, error) {
	f, err := s.archive.Open(name)
	if err != nil {
		return nil, Export{}, fmt.Errorf("opening report: %w", err)
	}
	return f, Export{Filename: name, ContentType: reportContentType(name)}, nil
}

// reportContentType maps an archived report's extension to its MIME type
func reportContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// generateOne renders a single format to a file in the reports dir
func (s *ReportService) generateOne(ctx context.Context, format ReportFormat) GeneratedReport {
	tmp, err := os.CreateTemp(s.reportsDir, "report-*")
	if err != nil {
		return GeneratedReport{Format: string(format), Error: err.Error()}
	}
	defer tmp.Close()

	export, err := s.Render(ctx, format, tmp)
	if err != nil {
		os.Remove(tmp.Name())
		return GeneratedReport{Format: string(format), Error: err.Error()}
	}

	final := filepath.Join(s.reportsDir, export.Filename)
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return GeneratedReport{Format: string(format), Error: err.Error()}
	}

	return GeneratedReport{Format: string(format), Filename: export.Filename}
}
