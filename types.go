package worklens

import (
	"sort"
	"strings"
)

// header is an ordered list of column names for a frame.
type header []string

// newHeader create new header.
func newHeader(h []string) header {
	return header(h)
}

// equal compare header.
func (h header) equal(h2 header) bool {
	if len(h) != len(h2) {
		return false
	}
	for i, v := range h {
		if v != h2[i] {
			return false
		}
	}
	return true
}

// index returns the position of a column name, or -1 if absent.
func (h header) index(name string) int {
	for i, v := range h {
		if v == name {
			return i
		}
	}
	return -1
}

// Record is one row of raw text cells, ordered as the owning frame's header.
type Record []string

// newRecord create new Record.
func newRecord(r []string) Record {
	return Record(r)
}

// equal compare Record.
func (r Record) equal(r2 Record) bool {
	if len(r) != len(r2) {
		return false
	}
	for i, v := range r {
		if v != r2[i] {
			return false
		}
	}
	return true
}

// clone returns an independent copy of the record.
func (r Record) clone() Record {
	c := make(Record, len(r))
	copy(c, r)
	return c
}

// row is one frame row: the raw text cells plus, once the frame has been
// normalized, a parallel numeric view. nums[i] is meaningful only when
// oks[i] is true; a designated numeric cell that failed coercion keeps
// oks[i] == false, which is the missing marker. nums/oks are nil on frames
// that have not passed through normalization.
type row struct {
	cells Record
	nums  []float64
	oks   []bool
}

// clone returns an independent copy of the row.
func (r row) clone() row {
	nr := row{cells: r.cells.clone()}
	if r.oks != nil {
		nr.nums = make([]float64, len(r.nums))
		copy(nr.nums, r.nums)
		nr.oks = make([]bool, len(r.oks))
		copy(nr.oks, r.oks)
	}
	return nr
}

// Frame is an immutable row set. Every pipeline stage that changes a frame
// returns a new one owning its own backing slices; nothing mutates a frame
// after construction.
type Frame struct {
	cols header
	rows []row
}

// newFrame builds a frame from a header and raw records. Records are
// adopted, not copied; callers hand over ownership.
func newFrame(cols header, records []Record) *Frame {
	rows := make([]row, len(records))
	for i, rec := range records {
		rows[i] = row{cells: rec}
	}
	return &Frame{cols: cols, rows: rows}
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// HasColumn reports whether the frame contains the named column.
func (f *Frame) HasColumn(name string) bool {
	return f.cols.index(name) >= 0
}

// Cell returns the raw text value at (rowIdx, column). The second return is
// false when the column does not exist or the row index is out of range.
func (f *Frame) Cell(rowIdx int, column string) (string, bool) {
	c := f.cols.index(column)
	if c < 0 || rowIdx < 0 || rowIdx >= len(f.rows) {
		return "", false
	}
	return f.rows[rowIdx].cells[c], true
}

// Value returns the coerced numeric value at (rowIdx, column). The second
// return is false for missing markers, for columns that were never
// designated numeric, and for frames that have not been normalized.
func (f *Frame) Value(rowIdx int, column string) (float64, bool) {
	c := f.cols.index(column)
	if c < 0 || rowIdx < 0 || rowIdx >= len(f.rows) {
		return 0, false
	}
	r := f.rows[rowIdx]
	if r.oks == nil || !r.oks[c] {
		return 0, false
	}
	return r.nums[c], true
}

// Record returns a copy of the raw cells of one row.
func (f *Frame) Record(rowIdx int) Record {
	if rowIdx < 0 || rowIdx >= len(f.rows) {
		return nil
	}
	return f.rows[rowIdx].cells.clone()
}

// Select returns a new frame holding only the named columns, in the given
// order, preserving row order. Unknown column names are ignored.
func (f *Frame) Select(columns ...string) *Frame {
	var keep []int
	var cols header
	for _, name := range columns {
		if i := f.cols.index(name); i >= 0 {
			keep = append(keep, i)
			cols = append(cols, name)
		}
	}
	rows := make([]row, len(f.rows))
	for ri, r := range f.rows {
		nr := row{cells: make(Record, len(keep))}
		if r.oks != nil {
			nr.nums = make([]float64, len(keep))
			nr.oks = make([]bool, len(keep))
		}
		for j, src := range keep {
			nr.cells[j] = r.cells[src]
			if r.oks != nil {
				nr.nums[j] = r.nums[src]
				nr.oks[j] = r.oks[src]
			}
		}
		rows[ri] = nr
	}
	return &Frame{cols: cols, rows: rows}
}

// uniqueValues returns the sorted distinct raw values of a column.
func (f *Frame) uniqueValues(column string) []string {
	c := f.cols.index(column)
	if c < 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(f.rows))
	for _, r := range f.rows {
		seen[r.cells[c]] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// equal compares two frames cell by cell; the numeric view is derived from
// the cells, so comparing cells is sufficient.
func (f *Frame) equal(f2 *Frame) bool {
	if !f.cols.equal(f2.cols) {
		return false
	}
	if len(f.rows) != len(f2.rows) {
		return false
	}
	for i := range f.rows {
		if !f.rows[i].cells.equal(f2.rows[i].cells) {
			return false
		}
	}
	return true
}

// String renders a compact table representation for debugging.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(f.cols, ","))
	for _, r := range f.rows {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(r.cells, ","))
	}
	return sb.String()
}
