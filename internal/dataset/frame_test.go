package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInfersColumnTypes(t *testing.T) {
	f, err := New(
		[]string{"id", "price", "city"},
		[][]string{
			{"1", "9.5", "Berlin"},
			{"2", "12", "Madrid"},
			{"3", "7.25", "Oslo"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, TypeInt, f.Type(0))
	assert.Equal(t, TypeFloat, f.Type(1))
	assert.Equal(t, TypeObject, f.Type(2))
	assert.Equal(t, []string{"id", "price"}, f.NumericColumns())
	assert.Equal(t, []string{"city"}, f.CategoricalColumns())
}

func TestNewRejectsEmptyHeader(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNewPadsShortRows(t *testing.T) {
	f, err := New([]string{"a", "b"}, [][]string{{"1"}})
	require.NoError(t, err)

	cell, missing := f.Cell(0, 1)
	assert.Empty(t, cell)
	assert.True(t, missing)
}

func TestIsMissingSentinels(t *testing.T) {
	tests := []struct {
		cell string
		want bool
	}{
		{"", true},
		{"  ", true},
		{"NA", true},
		{"n/a", true},
		{"NULL", true},
		{"NaN", true},
		{"None", true},
		{"0", false},
		{"value", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsMissing(tt.cell), "cell %q", tt.cell)
	}
}

func TestMissingCellsMakeColumnNullable(t *testing.T) {
	f, err := New(
		[]string{"score"},
		[][]string{{"1"}, {"NA"}, {"3"}},
	)
	require.NoError(t, err)

	assert.Equal(t, TypeInt, f.Type(0))
	assert.Equal(t, 1, f.MissingCount(0))
	assert.Equal(t, 1, f.TotalMissing())

	values, err := f.NumericValues("score")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, values)
}

func TestDuplicateRowCount(t *testing.T) {
	f, err := New(
		[]string{"a", "b"},
		[][]string{
			{"1", "x"},
			{"1", "x"},
			{"2", "y"},
			{"1", "x"},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, f.DuplicateRowCount())
}

func TestFromMapsSortsColumns(t *testing.T) {
	f, err := FromMaps([]map[string]interface{}{
		{"zeta": 1.0, "alpha": "x"},
		{"alpha": "y", "zeta": 2.0},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zeta"}, f.Columns())
	assert.Equal(t, 2, f.NumRows())

	cell, _ := f.Cell(0, 1)
	assert.Equal(t, "1", cell)
}

func TestFromMapsEmptyInput(t *testing.T) {
	_, err := FromMaps(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNumericValuesUnknownColumn(t *testing.T) {
	f, err := New([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)

	_, err = f.NumericValues("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}
