package http

import (
	"context"
	"io"

	"datalens/internal/dataset"
	"datalens/internal/files"
	"datalens/internal/services"
	"datalens/internal/store"
)

// DataServiceInterface is what the data handler needs from the data
// service. Tests substitute mocks for it.
type DataServiceInterface interface {
	ProcessUpload(ctx context.Context, filename string, r io.Reader) (*services.UploadResult, error)
	Current() (string, *dataset.Frame, error)
	SupportedFormats() map[string]string
	History(ctx context.Context) ([]store.DatasetRecord, error)
}

// AnalyticsServiceInterface is what the analytics handler needs
type AnalyticsServiceInterface interface {
	Summarize(ctx context.Context, filename string, r io.Reader) (*services.Summary, error)
	Correlation(ctx context.Context) (map[string]map[string]float64, error)
	Distribute(ctx context.Context, column string, bins int) (*services.Distribution, error)
}

// MLServiceInterface is what the ML handler needs
type MLServiceInterface interface {
	Predict(ctx context.Context, features []float64) (int, error)
	Status() services.ModelStatus
	History(ctx context.Context) ([]store.PredictionRecord, error)
}

// ReportServiceInterface is what the export handler needs
type ReportServiceInterface interface {
	Render(ctx context.Context, format services.ReportFormat, w io.Writer) (services.Export, error)
	GenerateAll(ctx context.Context) ([]services.GeneratedReport, error)
	ListGenerated(ctx context.Context) ([]files.ReportFile, error)
	OpenGenerated(ctx context.Context, name string) (io.ReadCloser, services.Export, error)
}

// HealthServiceInterface is what the health handler needs
type HealthServiceInterface interface {
	Check(ctx context.Context) services.HealthStatus
	Ready(ctx context.Context) bool
	Version() string
}
