package worklens

import (
	"math"
	"sort"
)

// GroupMean is one partition of a grouped-mean computation.
type GroupMean struct {
	Key   string
	Mean  float64
	Count int
}

// GroupedMean partitions the frame by a categorical column and computes the
// arithmetic mean of a numeric column per partition, over rows whose value
// is not a missing marker. Partitions with zero eligible rows are omitted
// rather than reported as NaN or zero. Partitions are returned sorted by
// key.
func GroupedMean(f *Frame, by, column string) []GroupMean {
	bi := f.cols.index(by)
	ci := f.cols.index(column)
	if bi < 0 || ci < 0 {
		return nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range f.rows {
		if r.oks == nil || !r.oks[ci] {
			continue
		}
		k := r.cells[bi]
		sums[k] += r.nums[ci]
		counts[k]++
	}

	out := make([]GroupMean, 0, len(sums))
	for k, sum := range sums {
		out = append(out, GroupMean{Key: k, Mean: sum / float64(counts[k]), Count: counts[k]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Mean computes the arithmetic mean of a numeric column over rows without a
// missing marker in that column. The second return is false when no such
// row exists.
func Mean(f *Frame, column string) (float64, bool) {
	ci := f.cols.index(column)
	if ci < 0 {
		return 0, false
	}
	var sum float64
	var n int
	for _, r := range f.rows {
		if r.oks == nil || !r.oks[ci] {
			continue
		}
		sum += r.nums[ci]
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Variance computes the sample variance of a numeric column over rows
// without a missing marker in that column. The result is undefined (second
// return false) when fewer than two such rows exist.
func Variance(f *Frame, column string) (float64, bool) {
	ci := f.cols.index(column)
	if ci < 0 {
		return 0, false
	}
	var sum float64
	var n int
	for _, r := range f.rows {
		if r.oks == nil || !r.oks[ci] {
			continue
		}
		sum += r.nums[ci]
		n++
	}
	if n < 2 {
		return 0, false
	}
	mean := sum / float64(n)
	var sq float64
	for _, r := range f.rows {
		if r.oks == nil || !r.oks[ci] {
			continue
		}
		d := r.nums[ci] - mean
		sq += d * d
	}
	return sq / float64(n-1), true
}

// Correlation computes the Pearson correlation of two numeric columns over
// rows without a missing marker in either column, without building a full
// matrix. The second return is false when fewer than two eligible rows
// exist or when either column has zero variance over them.
func Correlation(f *Frame, columnA, columnB string) (float64, bool) {
	ai := f.cols.index(columnA)
	bi := f.cols.index(columnB)
	if ai < 0 || bi < 0 {
		return 0, false
	}
	var xs, ys []float64
	for _, r := range f.rows {
		if r.oks == nil || !r.oks[ai] || !r.oks[bi] {
			continue
		}
		xs = append(xs, r.nums[ai])
		ys = append(ys, r.nums[bi])
	}
	return pearson(xs, ys)
}

// pearson computes the Pearson coefficient over paired samples.
func pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n < 2 {
		return 0, false
	}
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

// CorrelationMatrix holds pairwise Pearson correlations over a fixed column
// set, restricted to rows with no missing marker in any of those columns.
type CorrelationMatrix struct {
	columns []string
	values  [][]float64
	defined [][]bool
}

// NewCorrelationMatrix computes the pairwise correlation matrix. Rows with
// a missing marker in any listed column are excluded from every pair, so
// all entries describe the same underlying row subset.
func NewCorrelationMatrix(f *Frame, columns ...string) *CorrelationMatrix {
	idx := make([]int, len(columns))
	for i, name := range columns {
		idx[i] = f.cols.index(name)
	}

	// Collect the complete-case rows once.
	samples := make([][]float64, len(columns))
	for _, r := range f.rows {
		ok := true
		for _, ci := range idx {
			if ci < 0 || r.oks == nil || !r.oks[ci] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for i, ci := range idx {
			samples[i] = append(samples[i], r.nums[ci])
		}
	}

	m := &CorrelationMatrix{
		columns: append([]string{}, columns...),
		values:  make([][]float64, len(columns)),
		defined: make([][]bool, len(columns)),
	}
	for i := range columns {
		m.values[i] = make([]float64, len(columns))
		m.defined[i] = make([]bool, len(columns))
		for j := range columns {
			if j < i {
				m.values[i][j] = m.values[j][i]
				m.defined[i][j] = m.defined[j][i]
				continue
			}
			if i == j {
				if len(samples[i]) >= 2 {
					m.values[i][j] = 1
					m.defined[i][j] = true
				}
				continue
			}
			m.values[i][j], m.defined[i][j] = pearson(samples[i], samples[j])
		}
	}
	return m
}

// Columns returns the column set the matrix was computed over.
func (m *CorrelationMatrix) Columns() []string {
	out := make([]string, len(m.columns))
	copy(out, m.columns)
	return out
}

// At returns the correlation for a named pair. The second return is false
// for unknown columns and for undefined entries (too few complete rows or
// zero variance).
func (m *CorrelationMatrix) At(columnA, columnB string) (float64, bool) {
	ai, bi := -1, -1
	for i, name := range m.columns {
		if name == columnA {
			ai = i
		}
		if name == columnB {
			bi = i
		}
	}
	if ai < 0 || bi < 0 || !m.defined[ai][bi] {
		return 0, false
	}
	return m.values[ai][bi], true
}

// TopN returns the n rows with the largest value of a numeric column, ties
// broken by original row order. Rows with a missing marker in the column
// are excluded. When selectColumns is non-empty the result carries only
// those columns; otherwise all columns are kept. The input is not
// reordered.
func TopN(f *Frame, n int, column string, selectColumns ...string) *Frame {
	ci := f.cols.index(column)
	out := &Frame{cols: append(header{}, f.cols...)}
	if ci < 0 || n <= 0 {
		if len(selectColumns) > 0 {
			return out.Select(selectColumns...)
		}
		return out
	}

	var order []int
	for i, r := range f.rows {
		if r.oks != nil && r.oks[ci] {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.rows[order[a]].nums[ci] > f.rows[order[b]].nums[ci]
	})
	if n < len(order) {
		order = order[:n]
	}

	rows := make([]row, 0, len(order))
	for _, i := range order {
		rows = append(rows, f.rows[i].clone())
	}
	out.rows = rows
	if len(selectColumns) > 0 {
		return out.Select(selectColumns...)
	}
	return out
}

// Bin assigns each row to a labeled bucket of a numeric column and returns
// a new frame with the bucket label appended as column `as`. Boundaries
// define len(boundaries)-1 buckets, half-open [low, high) except the last,
// which is closed [low, high]. Rows with a missing marker or a value
// outside every bucket are excluded, never assigned to a catch-all.
func Bin(f *Frame, column, as string, boundaries []float64, labels []string) (*Frame, error) {
	if len(boundaries) < 2 || len(labels) != len(boundaries)-1 {
		return nil, ErrBadBinSpec
	}
	ci := f.cols.index(column)
	if ci < 0 {
		return nil, ErrUnknownColumn
	}

	cols := append(append(header{}, f.cols...), as)
	var rows []row
	for _, r := range f.rows {
		if r.oks == nil || !r.oks[ci] {
			continue
		}
		label, ok := bucketFor(r.nums[ci], boundaries, labels)
		if !ok {
			continue
		}
		nr := row{
			cells: append(r.cells.clone(), label),
			nums:  append(append([]float64{}, r.nums...), 0),
			oks:   append(append([]bool{}, r.oks...), false),
		}
		rows = append(rows, nr)
	}
	return &Frame{cols: cols, rows: rows}, nil
}

// bucketFor places a value into its bucket. The last bucket includes its
// upper boundary.
func bucketFor(v float64, boundaries []float64, labels []string) (string, bool) {
	last := len(boundaries) - 2
	for i := 0; i <= last; i++ {
		low, high := boundaries[i], boundaries[i+1]
		if v >= low && (v < high || (i == last && v == high)) {
			return labels[i], true
		}
	}
	return "", false
}
