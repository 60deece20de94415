package services

import "errors"

// Upload and processing errors
var (
	ErrMissingFile       = errors.New("no file provided")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDataset      = errors.New("uploaded file is empty")
	ErrNoCleanedData     = errors.New("no cleaned dataset available")

	// Analytics errors
	ErrColumnNotFound    = errors.New("column not found")
	ErrNoNumericColumns  = errors.New("no numeric columns available")
	ErrColumnNotNumeric  = errors.New("column is not numeric")

	// ML errors
	ErrNoFeatures       = errors.New("no features provided")
	ErrModelUnavailable = errors.New("model unavailable")

	// Export errors
	ErrUnknownReportFormat = errors.New("unknown report format")
)
