package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalytics(t *testing.T) (*AnalyticsService, *DataService) {
	t.Helper()
	data := newTestDataService(t)
	return NewAnalyticsService(data, testLogger()), data
}

func TestSummarizeComputesNumericStats(t *testing.T) {
	svc, _ := newTestAnalytics(t)

	input := "score\n1\n2\n3\n4\n"
	summary, err := svc.Summarize(context.Background(), "scores.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 1, summary.TotalColumns)
	assert.Equal(t, 1, summary.NumericColumns)
	assert.Equal(t, 0, summary.CategoricalColumns)

	stats, ok := summary.NumericStats["score"]
	require.True(t, ok)
	assert.Equal(t, 2.5, stats.Mean)
	assert.Equal(t, 2.5, stats.Median)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 4.0, stats.Max)
	assert.InDelta(t, 1.75, stats.Q25, 1e-9)
	assert.InDelta(t, 3.25, stats.Q75, 1e-9)
}

func TestSummarizeEmptyFile(t *testing.T) {
	svc, _ := newTestAnalytics(t)

	_, err := svc.Summarize(context.Background(), "empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestCorrelationRequiresCurrentDataset(t *testing.T) {
	svc, _ := newTestAnalytics(t)

	_, err := svc.Correlation(context.Background())
	assert.ErrorIs(t, err, ErrNoCleanedData)
}

func TestCorrelationOnCurrentDataset(t *testing.T) {
	svc, data := newTestAnalytics(t)

	input := "a,b\n1,2\n2,4\n3,6\n"
	_, err := data.ProcessUpload(context.Background(), "pairs.csv", strings.NewReader(input))
	require.NoError(t, err)

	matrix, err := svc.Correlation(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, matrix["a"]["b"], 1e-9)
}

func TestCorrelationWithoutEnoughNumericColumns(t *testing.T) {
	svc, data := newTestAnalytics(t)

	input := "name,n\nAlice,1\nBob,2\n"
	_, err := data.ProcessUpload(context.Background(), "single.csv", strings.NewReader(input))
	require.NoError(t, err)

	_, err = svc.Correlation(context.Background())
	assert.ErrorIs(t, err, ErrNoNumericColumns)
}

func TestDistributeBinsColumn(t *testing.T) {
	svc, data := newTestAnalytics(t)

	input := "v\n1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	_, err := data.ProcessUpload(context.Background(), "values.csv", strings.NewReader(input))
	require.NoError(t, err)

	dist, err := svc.Distribute(context.Background(), "v", 5)
	require.NoError(t, err)

	assert.Equal(t, "v", dist.Column)
	assert.Len(t, dist.BinEdges, 6)
	assert.Len(t, dist.Counts, 5)

	total := 0
	for _, c := range dist.Counts {
		total += c
	}
	assert.Equal(t, 10, total)
}

func TestDistributeUnknownColumn(t *testing.T) {
	svc, data := newTestAnalytics(t)

	_, err := data.ProcessUpload(context.Background(), "values.csv", strings.NewReader("v\n1\n2\n"))
	require.NoError(t, err)

	_, err = svc.Distribute(context.Background(), "missing", 10)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestDistributeNonNumericColumn(t *testing.T) {
	svc, data := newTestAnalytics(t)

	_, err := data.ProcessUpload(context.Background(), "cities.csv", strings.NewReader("city,n\nOslo,1\nBerlin,2\n"))
	require.NoError(t, err)

	_, err = svc.Distribute(context.Background(), "city", 10)
	assert.ErrorIs(t, err, ErrColumnNotNumeric)
}
