package dataset

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStd returns the sample standard deviation (n-1 denominator).
// Returns 0 when fewer than two values are present.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// Quantile returns the q-th quantile (0 <= q <= 1) using linear
// interpolation between closest ranks.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// Median returns the middle value of the distribution
func Median(values []float64) float64 {
	return Quantile(values, 0.5)
}

// Min returns the smallest value, or 0 for an empty slice
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest value, or 0 for an empty slice
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Mode returns the most frequent value among the strings. Ties are
// broken by choosing the lexicographically smallest value.
func Mode(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best, bestCount := "", 0
	for v, count := range counts {
		if count > bestCount || (count == bestCount && v < best) {
			best, bestCount = v, count
		}
	}
	return best, true
}

// Pearson returns the Pearson correlation coefficient of two equal
// length series. Returns 0 when either series has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0
	}

	meanX, meanY := Mean(x), Mean(y)
	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Histogram bins values into count equal-width buckets and returns the
// bin edges (count+1 values) and the per-bin counts.
func Histogram(values []float64, count int) (edges []float64, counts []int) {
	if count <= 0 {
		count = 10
	}
	edges = make([]float64, count+1)
	counts = make([]int, count)
	if len(values) == 0 {
		return edges, counts
	}

	lo, hi := Min(values), Max(values)
	if lo == hi {
		// degenerate distribution, single populated bin
		for i := range edges {
			edges[i] = lo + float64(i)
		}
		counts[0] = len(values)
		return edges, counts
	}

	width := (hi - lo) / float64(count)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[count] = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= count {
			idx = count - 1
		}
		counts[idx]++
	}
	return edges, counts
}
