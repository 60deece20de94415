package dataset

import "strconv"

// Analysis is the headline profile of a cleaned dataset
type Analysis struct {
	Rows               int               `json:"rows"`
	Columns            int               `json:"columns"`
	ColumnNames        []string          `json:"columns_names"`
	DataTypes          map[string]string `json:"data_types"`
	NumericColumns     []string          `json:"numeric_columns"`
	CategoricalColumns []string          `json:"categorical_columns"`
	MissingCount       int               `json:"missing_count"`
	DuplicateRows      int               `json:"duplicate_rows"`
	MemoryUsageMB      float64           `json:"memory_usage_mb"`
}

// Analyze profiles the frame's shape, types and quality
func Analyze(f *Frame) Analysis {
	dataTypes := make(map[string]string, f.NumCols())
	for i, col := range f.Columns() {
		dataTypes[col] = string(f.Type(i))
	}

	numeric := f.NumericColumns()
	if numeric == nil {
		numeric = []string{}
	}
	categorical := f.CategoricalColumns()
	if categorical == nil {
		categorical = []string{}
	}

	return Analysis{
		Rows:               f.NumRows(),
		Columns:            f.NumCols(),
		ColumnNames:        f.Columns(),
		DataTypes:          dataTypes,
		NumericColumns:     numeric,
		CategoricalColumns: categorical,
		MissingCount:       f.TotalMissing(),
		DuplicateRows:      f.DuplicateRowCount(),
		MemoryUsageMB:      f.MemoryUsageMB(),
	}
}

// DescriptiveStats holds the classic eight-number summary per column
type DescriptiveStats struct {
	Count float64 `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"25%"`
	Q50   float64 `json:"50%"`
	Q75   float64 `json:"75%"`
	Max   float64 `json:"max"`
}

// DataTypesTable is a columnar view of per-column type and null counts
type DataTypesTable struct {
	ColumnName   []string `json:"column_name"`
	DataType     []string `json:"data_type"`
	NonNullCount []int    `json:"non_null_count"`
	NullCount    []int    `json:"null_count"`
}

// NumericSummary compares numeric columns side by side
type NumericSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// CategoricalSummary compares categorical columns side by side
type CategoricalSummary struct {
	UniqueCount       int            `json:"unique_count"`
	MostCommonValue   string         `json:"most_common_value"`
	ValueDistribution map[string]int `json:"value_distribution"`
}

// MissingSummary describes missing data for one column
type MissingSummary struct {
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
}

// DuplicateAnalysis describes duplicate rows in the dataset
type DuplicateAnalysis struct {
	TotalDuplicates     int     `json:"total_duplicates"`
	DuplicatePercentage float64 `json:"duplicate_percentage"`
}

// SummaryTable is the one-row overview of the whole dataset
type SummaryTable struct {
	TotalRows          int     `json:"total_rows"`
	TotalColumns       int     `json:"total_columns"`
	NumericColumns     int     `json:"numeric_columns"`
	CategoricalColumns int     `json:"categorical_columns"`
	TotalMissingValues int     `json:"total_missing_values"`
	MemoryUsageMB      float64 `json:"memory_usage_mb"`
}

// Tables bundles every comparison table generated for a dataset
type Tables struct {
	DescriptiveStatistics map[string]DescriptiveStats   `json:"descriptive_statistics,omitempty"`
	DataTypes             DataTypesTable                `json:"data_types"`
	NumericComparison     map[string]NumericSummary     `json:"numeric_comparison,omitempty"`
	CategoricalComparison map[string]CategoricalSummary `json:"categorical_comparison,omitempty"`
	MissingValues         map[string]MissingSummary     `json:"missing_values"`
	CorrelationMatrix     map[string]map[string]float64 `json:"correlation_matrix,omitempty"`
	DuplicateAnalysis     DuplicateAnalysis             `json:"duplicate_analysis"`
	Summary               SummaryTable                  `json:"summary"`
}

// BuildTables computes all comparison tables for the frame
func BuildTables(f *Frame) Tables {
	numericCols := f.NumericColumns()
	categoricalCols := f.CategoricalColumns()

	tables := Tables{
		MissingValues: make(map[string]MissingSummary),
	}

	if len(numericCols) > 0 {
		tables.DescriptiveStatistics = make(map[string]DescriptiveStats, len(numericCols))
		tables.NumericComparison = make(map[string]NumericSummary, len(numericCols))
		for _, col := range numericCols {
			values, _ := f.NumericValues(col)
			tables.DescriptiveStatistics[col] = DescriptiveStats{
				Count: float64(len(values)),
				Mean:  Mean(values),
				Std:   SampleStd(values),
				Min:   Min(values),
				Q25:   Quantile(values, 0.25),
				Q50:   Median(values),
				Q75:   Quantile(values, 0.75),
				Max:   Max(values),
			}
			tables.NumericComparison[col] = NumericSummary{
				Count:  len(values),
				Mean:   Mean(values),
				Std:    SampleStd(values),
				Min:    Min(values),
				Max:    Max(values),
				Q1:     Quantile(values, 0.25),
				Median: Median(values),
				Q3:     Quantile(values, 0.75),
			}
		}
	}

	columns := f.Columns()
	tables.DataTypes = DataTypesTable{
		ColumnName:   columns,
		DataType:     make([]string, len(columns)),
		NonNullCount: make([]int, len(columns)),
		NullCount:    make([]int, len(columns)),
	}
	for i := range columns {
		missing := f.MissingCount(i)
		tables.DataTypes.DataType[i] = string(f.Type(i))
		tables.DataTypes.NonNullCount[i] = f.NumRows() - missing
		tables.DataTypes.NullCount[i] = missing

		if missing > 0 && f.NumRows() > 0 {
			pct := roundTo(float64(missing)/float64(f.NumRows())*100, 2)
			tables.MissingValues[columns[i]] = MissingSummary{
				MissingCount:      missing,
				MissingPercentage: pct,
			}
		}
	}

	if len(categoricalCols) > 0 {
		tables.CategoricalComparison = make(map[string]CategoricalSummary, len(categoricalCols))
		for _, col := range categoricalCols {
			tables.CategoricalComparison[col] = summarizeCategorical(f, col)
		}
	}

	if len(numericCols) > 1 {
		tables.CorrelationMatrix = CorrelationMatrix(f)
	}

	dups := f.DuplicateRowCount()
	tables.DuplicateAnalysis = DuplicateAnalysis{TotalDuplicates: dups}
	if f.NumRows() > 0 {
		tables.DuplicateAnalysis.DuplicatePercentage = roundTo(float64(dups)/float64(f.NumRows())*100, 2)
	}

	tables.Summary = SummaryTable{
		TotalRows:          f.NumRows(),
		TotalColumns:       f.NumCols(),
		NumericColumns:     len(numericCols),
		CategoricalColumns: len(categoricalCols),
		TotalMissingValues: f.TotalMissing(),
		MemoryUsageMB:      f.MemoryUsageMB(),
	}

	return tables
}

// summarizeCategorical counts distinct values in a categorical column
func summarizeCategorical(f *Frame, col string) CategoricalSummary {
	i, _ := f.ColumnIndex(col)
	distribution := make(map[string]int)
	var values []string
	for r := 0; r < f.NumRows(); r++ {
		cell, missing := f.Cell(r, i)
		if missing {
			continue
		}
		distribution[cell]++
		values = append(values, cell)
	}

	mostCommon, _ := Mode(values)
	return CategoricalSummary{
		UniqueCount:       len(distribution),
		MostCommonValue:   mostCommon,
		ValueDistribution: distribution,
	}
}

// CorrelationMatrix computes pairwise Pearson correlations across the
// numeric columns, using rows where both values are present.
func CorrelationMatrix(f *Frame) map[string]map[string]float64 {
	numericCols := f.NumericColumns()
	if len(numericCols) < 2 {
		return nil
	}

	series := make(map[string][]float64, len(numericCols))
	present := make(map[string][]bool, len(numericCols))
	for _, col := range numericCols {
		i, _ := f.ColumnIndex(col)
		vals := make([]float64, f.NumRows())
		ok := make([]bool, f.NumRows())
		for r := 0; r < f.NumRows(); r++ {
			cell, missing := f.Cell(r, i)
			if missing {
				continue
			}
			if v, err := strconv.ParseFloat(cell, 64); err == nil {
				vals[r] = v
				ok[r] = true
			}
		}
		series[col] = vals
		present[col] = ok
	}

	matrix := make(map[string]map[string]float64, len(numericCols))
	for _, a := range numericCols {
		matrix[a] = make(map[string]float64, len(numericCols))
		for _, b := range numericCols {
			if a == b {
				matrix[a][b] = 1
				continue
			}
			var xs, ys []float64
			for r := 0; r < f.NumRows(); r++ {
				if present[a][r] && present[b][r] {
					xs = append(xs, series[a][r])
					ys = append(ys, series[b][r])
				}
			}
			matrix[a][b] = Pearson(xs, ys)
		}
	}
	return matrix
}
