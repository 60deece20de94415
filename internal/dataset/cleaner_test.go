package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRemovesDuplicates(t *testing.T) {
	f, err := New(
		[]string{"a", "b"},
		[][]string{
			{"1", "x"},
			{"1", "x"},
			{"2", "y"},
		},
	)
	require.NoError(t, err)

	cleaned, report, err := Clean(f)
	require.NoError(t, err)

	assert.Equal(t, 2, cleaned.NumRows())
	assert.Equal(t, 3, report.Original.Rows)
	assert.Equal(t, 1, report.Original.DuplicateRows)
	assert.Equal(t, 1, report.Cleaned.RowsRemoved)
	assert.Equal(t, 1, report.Cleaned.DuplicateRowsRemoved)
}

func TestCleanImputesNumericWithMedian(t *testing.T) {
	f, err := New(
		[]string{"score"},
		[][]string{{"1"}, {"3"}, {""}, {"5"}},
	)
	require.NoError(t, err)

	cleaned, report, err := Clean(f)
	require.NoError(t, err)

	assert.Equal(t, 4, cleaned.NumRows())
	assert.Equal(t, 0, cleaned.TotalMissing())
	assert.Equal(t, 1, report.Cleaned.MissingValuesFilled)

	// Median of 1,3,5 is 3
	cell, missing := cleaned.Cell(2, 0)
	assert.False(t, missing)
	assert.Equal(t, "3", cell)
}

func TestCleanImputesCategoricalWithMode(t *testing.T) {
	f, err := New(
		[]string{"city"},
		[][]string{{"Oslo"}, {"Oslo"}, {"Berlin"}, {"NA"}},
	)
	require.NoError(t, err)

	cleaned, _, err := Clean(f)
	require.NoError(t, err)

	cell, missing := cleaned.Cell(2, 0)
	assert.False(t, missing)
	_ = cell

	found := false
	for _, row := range cleaned.Records() {
		if row[0] == "Oslo" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, 0, cleaned.TotalMissing())
}

func TestCleanDropsRowsWithoutImputationValue(t *testing.T) {
	// A fully missing column has no median or mode to impute with
	f, err := New(
		[]string{"a", "empty"},
		[][]string{
			{"1", ""},
			{"2", "NA"},
		},
	)
	require.NoError(t, err)

	cleaned, report, err := Clean(f)
	require.NoError(t, err)

	// Object column with no values falls back to "Unknown"
	assert.Equal(t, 2, cleaned.NumRows())
	assert.Equal(t, 2, report.Cleaned.MissingValuesFilled)

	cell, _ := cleaned.Cell(0, 1)
	assert.Equal(t, "Unknown", cell)
}

func TestCleanDeduplicatesAfterImputation(t *testing.T) {
	// Filling "nan" with the median 1.5 collapses the two rows
	f, err := New(
		[]string{"n"},
		[][]string{{"nan"}, {"1.5"}},
	)
	require.NoError(t, err)

	cleaned, _, err := Clean(f)
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned.NumRows())
}

func TestCleanReportCountsOriginalMissingPerColumn(t *testing.T) {
	f, err := New(
		[]string{"a", "b"},
		[][]string{
			{"1", ""},
			{"", "x"},
			{"3", "y"},
		},
	)
	require.NoError(t, err)

	_, report, err := Clean(f)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Original.MissingValues["a"])
	assert.Equal(t, 1, report.Original.MissingValues["b"])
	assert.Equal(t, 2, report.Cleaned.MissingValuesFilled)
}

func TestCleanLeavesInputUntouched(t *testing.T) {
	f, err := New(
		[]string{"a"},
		[][]string{{"1"}, {"1"}, {""}},
	)
	require.NoError(t, err)

	_, _, err = Clean(f)
	require.NoError(t, err)

	assert.Equal(t, 3, f.NumRows())
	assert.Equal(t, 1, f.TotalMissing())
}
