package worklens

// PredicateKind distinguishes the two predicate families a FilterSpec can
// carry.
type PredicateKind int

const (
	// PredicateMembership keeps rows whose categorical value is in a set
	PredicateMembership PredicateKind = iota
	// PredicateRange keeps rows whose numeric value lies in [Low, High]
	PredicateRange
)

// Predicate is one (column, kind, parameters) tuple. Predicates are data:
// adding a filter dimension means appending a Predicate, not new control
// flow.
type Predicate struct {
	Column string
	Kind   PredicateKind

	// Values is the allowed set for membership predicates. An empty set
	// matches nothing; it is not treated as "no filter".
	Values []string

	// Low and High bound range predicates, inclusive on both ends.
	Low  float64
	High float64
}

// FilterSpec is an immutable snapshot of the active predicates for one
// interaction. The zero value matches every row. With* methods return a new
// spec and never modify the receiver, so specs can be shared and reapplied
// freely.
type FilterSpec struct {
	preds []Predicate
}

// NewFilterSpec returns an empty filter spec.
func NewFilterSpec() FilterSpec {
	return FilterSpec{}
}

// WithMembership returns a copy of the spec with an added set-membership
// predicate on a categorical column.
func (s FilterSpec) WithMembership(column string, values ...string) FilterSpec {
	vs := make([]string, len(values))
	copy(vs, values)
	return s.with(Predicate{Column: column, Kind: PredicateMembership, Values: vs})
}

// WithRange returns a copy of the spec with an added closed-interval
// predicate on a numeric column. Both bounds are inclusive.
func (s FilterSpec) WithRange(column string, low, high float64) FilterSpec {
	return s.with(Predicate{Column: column, Kind: PredicateRange, Low: low, High: high})
}

func (s FilterSpec) with(p Predicate) FilterSpec {
	preds := make([]Predicate, len(s.preds), len(s.preds)+1)
	copy(preds, s.preds)
	return FilterSpec{preds: append(preds, p)}
}

// Predicates returns a copy of the active predicates.
func (s FilterSpec) Predicates() []Predicate {
	out := make([]Predicate, len(s.preds))
	copy(out, s.preds)
	return out
}

// Apply returns the subset of rows satisfying every predicate (logical AND
// across all of them). Row order is preserved. A row with a missing marker
// on a range-filtered column does not satisfy that predicate and is
// excluded. The input frame is not modified.
func (s FilterSpec) Apply(f *Frame) *Frame {
	type compiled struct {
		col  int
		kind PredicateKind
		set  map[string]struct{}
		low  float64
		high float64
	}
	preds := make([]compiled, 0, len(s.preds))
	for _, p := range s.preds {
		c := compiled{col: f.cols.index(p.Column), kind: p.Kind, low: p.Low, high: p.High}
		if p.Kind == PredicateMembership {
			c.set = make(map[string]struct{}, len(p.Values))
			for _, v := range p.Values {
				c.set[v] = struct{}{}
			}
		}
		preds = append(preds, c)
	}

	var rows []row
	for _, r := range f.rows {
		keep := true
		for _, p := range preds {
			if p.col < 0 {
				// Predicate on a column the frame does not have: nothing
				// can satisfy it.
				keep = false
				break
			}
			switch p.kind {
			case PredicateMembership:
				if _, ok := p.set[r.cells[p.col]]; !ok {
					keep = false
				}
			case PredicateRange:
				if r.oks == nil || !r.oks[p.col] {
					keep = false
					break
				}
				v := r.nums[p.col]
				if v < p.low || v > p.high {
					keep = false
				}
			}
			if !keep {
				break
			}
		}
		if keep {
			rows = append(rows, r.clone())
		}
	}
	return &Frame{cols: append(header{}, f.cols...), rows: rows}
}
