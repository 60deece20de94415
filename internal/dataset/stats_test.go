package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.5, Mean([]float64{1, 2, 3, 4}))
}

func TestSampleStd(t *testing.T) {
	assert.Equal(t, 0.0, SampleStd([]float64{5}))
	// Sample std of 2,4,4,4,5,5,7,9 is sqrt(32/7)
	assert.InDelta(t, 2.13809, SampleStd([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-4)
}

func TestQuantileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 4.0, Quantile(values, 1))
	assert.InDelta(t, 1.75, Quantile(values, 0.25), 1e-9)
	assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-9)
	assert.InDelta(t, 3.25, Quantile(values, 0.75), 1e-9)
}

func TestMedianOddCount(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
}

func TestModePicksMostFrequent(t *testing.T) {
	mode, ok := Mode([]string{"a", "b", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "b", mode)
}

func TestModeTieBreaksLexicographically(t *testing.T) {
	mode, ok := Mode([]string{"b", "a"})
	assert.True(t, ok)
	assert.Equal(t, "a", mode)
}

func TestModeEmpty(t *testing.T) {
	_, ok := Mode(nil)
	assert.False(t, ok)
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, Pearson(x, []float64{2, 4, 6, 8}), 1e-9)
	assert.InDelta(t, -1.0, Pearson(x, []float64{8, 6, 4, 2}), 1e-9)
}

func TestPearsonZeroVariance(t *testing.T) {
	assert.Equal(t, 0.0, Pearson([]float64{1, 2, 3}, []float64{5, 5, 5}))
}

func TestHistogramBinsValues(t *testing.T) {
	edges, counts := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)

	assert.Len(t, edges, 6)
	assert.Len(t, counts, 5)

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, 0.0, edges[0])
	assert.Equal(t, 10.0, edges[5])
}

func TestHistogramConstantSeries(t *testing.T) {
	_, counts := Histogram([]float64{3, 3, 3}, 4)
	assert.Equal(t, 3, counts[0])
}
