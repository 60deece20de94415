package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthStatus is the health endpoint response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// HealthService reports on process and dependency health
type HealthService struct {
	version   string
	startTime time.Time
	data      *DataService
	ml        *MLService
	logger    *slog.Logger
}

// NewHealthService creates the health service
func NewHealthService(version string, data *DataService, ml *MLService, logger *slog.Logger) *HealthService {
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		data:      data,
		ml:        ml,
		logger:    logger,
	}
}

// Check builds the full health report
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	datasetLoaded := false
	if _, _, err := s.data.Current(); err == nil {
		datasetLoaded = true
	}

	modelStatus := s.ml.Status()

	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"go_version":  runtime.Version(),
			"goroutines":  runtime.NumGoroutine(),
			"alloc_bytes": memStats.Alloc,
			"num_cpu":     runtime.NumCPU(),
		},
		Services: map[string]interface{}{
			"dataset_loaded": datasetLoaded,
			"model":          modelStatus,
		},
	}
}

// Ready reports whether the service can take traffic
func (s *HealthService) Ready(ctx context.Context) bool {
	return true
}

// Version returns the running build version
func (s *HealthService) Version() string {
	return s.version
}
