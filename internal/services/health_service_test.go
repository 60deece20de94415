package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHealthService(t *testing.T) (*HealthService, *DataService) {
	t.Helper()
	data := newTestDataService(t)
	mlSvc := newTestMLService(t, "")
	return NewHealthService("1.2.3", data, mlSvc, testLogger()), data
}

func TestCheckReportsHealthy(t *testing.T) {
	svc, _ := newTestHealthService(t)

	status := svc.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
	assert.Contains(t, status.Runtime, "go_version")
	assert.Equal(t, false, status.Services["dataset_loaded"])
}

func TestCheckReflectsLoadedDataset(t *testing.T) {
	svc, data := newTestHealthService(t)

	_, err := data.ProcessUpload(context.Background(), "people.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	status := svc.Check(context.Background())
	assert.Equal(t, true, status.Services["dataset_loaded"])
}

func TestReadyAndVersion(t *testing.T) {
	svc, _ := newTestHealthService(t)

	assert.True(t, svc.Ready(context.Background()))
	assert.Equal(t, "1.2.3", svc.Version())
}
