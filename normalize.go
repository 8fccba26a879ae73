package worklens

import (
	"strconv"
	"strings"
)

// parseNumeric coerces one raw cell to a float64. The second return is
// false when the trimmed cell is empty or does not parse, which is the
// missing marker: unparsable data never defaults to zero.
func parseNumeric(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// normalizeNumeric returns a new frame whose designated numeric columns
// carry a coerced numeric view alongside the untouched raw cells. Columns
// outside the designated set keep no numeric view. Rows are never dropped
// here; exclusion of rows with missing markers is scoped to each downstream
// computation.
func normalizeNumeric(f *Frame, columns []string) *Frame {
	numeric := make([]bool, len(f.cols))
	for _, name := range columns {
		if i := f.cols.index(name); i >= 0 {
			numeric[i] = true
		}
	}

	rows := make([]row, len(f.rows))
	for ri, r := range f.rows {
		nr := row{
			cells: r.cells.clone(),
			nums:  make([]float64, len(f.cols)),
			oks:   make([]bool, len(f.cols)),
		}
		for ci := range f.cols {
			if !numeric[ci] {
				continue
			}
			nr.nums[ci], nr.oks[ci] = parseNumeric(r.cells[ci])
		}
		rows[ri] = nr
	}
	return &Frame{cols: append(header{}, f.cols...), rows: rows}
}
