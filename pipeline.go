package worklens

import (
	"context"
	"hash/fnv"
	"sync"
)

// Pipeline runs the load → join → normalize stages over a Store and hands
// out Snapshots for filtering and aggregation. Loading re-reads storage on
// every run; the join and normalization output is memoized keyed on a
// fingerprint of the loaded tables, since those stages are
// interaction-invariant while the data is unchanged.
type Pipeline struct {
	store *Store

	mu     sync.Mutex
	cached *Snapshot
	closed bool
}

// NewPipeline creates a pipeline over an open store. The pipeline takes
// ownership of the store; Close releases it.
func NewPipeline(store *Store) *Pipeline {
	return &Pipeline{store: store}
}

// Store returns the underlying storage collaborator.
func (p *Pipeline) Store() *Store {
	return p.store
}

// Close releases the storage handle. Snapshots already handed out remain
// usable: they own their data.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.store.Close()
}

// Snapshot loads the source tables, joins and normalizes them, and returns
// the result together with any load notices. When the loaded tables match
// the previous run's fingerprint, the memoized joined frame and domains are
// reused instead of recomputed.
func (p *Pipeline) Snapshot(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}

	tables, notices, err := p.store.LoadTables(ctx)
	if err != nil {
		return nil, err
	}

	fp := fingerprintTables(tables)
	if p.cached != nil && p.cached.fingerprint == fp {
		if len(notices) == 0 {
			return p.cached, nil
		}
		return &Snapshot{
			fingerprint: fp,
			frame:       p.cached.frame,
			domains:     p.cached.domains,
			notices:     notices,
		}, nil
	}

	joined, err := joinTables(tables)
	if err != nil {
		return nil, err
	}
	frame := normalizeNumeric(joined, numericColumns)

	snap := &Snapshot{
		fingerprint: fp,
		frame:       frame,
		domains:     computeDomains(frame),
		notices:     notices,
	}
	p.cached = snap
	return snap, nil
}

// Snapshot is one run's joined, normalized row set plus derived metadata.
// It is immutable: every interaction filters and aggregates against it
// without touching it.
type Snapshot struct {
	fingerprint uint64
	frame       *Frame
	domains     Domains
	notices     []Notice
}

// Frame returns the joined, normalized row set.
func (s *Snapshot) Frame() *Frame {
	return s.frame
}

// Notices returns the non-fatal load failures of the run that produced this
// snapshot.
func (s *Snapshot) Notices() []Notice {
	out := make([]Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// Domains returns the allowed filter value domains, computed from the
// unfiltered joined set, for populating selection widgets.
func (s *Snapshot) Domains() Domains {
	return s.domains
}

// Filter applies a filter spec to the snapshot's frame.
func (s *Snapshot) Filter(spec FilterSpec) *Frame {
	return spec.Apply(s.frame)
}

// NumericRange is the observed [Min, Max] of a numeric column. Defined is
// false when the column has no non-missing values.
type NumericRange struct {
	Min     float64
	Max     float64
	Defined bool
}

// Domains describes the selectable values per filterable column:
// sorted distinct values for categorical columns and the observed range for
// numeric ones.
type Domains struct {
	Categorical map[string][]string
	Numeric     map[string]NumericRange
}

// computeDomains derives the filter domains from the unfiltered frame.
func computeDomains(f *Frame) Domains {
	d := Domains{
		Categorical: make(map[string][]string, len(categoricalColumns)),
		Numeric:     make(map[string]NumericRange, len(numericColumns)),
	}
	for _, col := range categoricalColumns {
		if f.HasColumn(col) {
			d.Categorical[col] = f.uniqueValues(col)
		}
	}
	for _, col := range numericColumns {
		ci := f.cols.index(col)
		if ci < 0 {
			continue
		}
		var r NumericRange
		for _, rw := range f.rows {
			if rw.oks == nil || !rw.oks[ci] {
				continue
			}
			v := rw.nums[ci]
			if !r.Defined {
				r = NumericRange{Min: v, Max: v, Defined: true}
				continue
			}
			if v < r.Min {
				r.Min = v
			}
			if v > r.Max {
				r.Max = v
			}
		}
		d.Numeric[col] = r
	}
	return d
}

// KeyMetrics are the headline numbers rendered above the charts.
type KeyMetrics struct {
	Employees         int
	MeanSalary        float64
	MeanSalaryOK      bool
	MeanPerformance   float64
	MeanPerformanceOK bool
}

// Metrics computes the key metrics over a (typically filtered) frame.
func Metrics(f *Frame) KeyMetrics {
	m := KeyMetrics{Employees: f.Len()}
	m.MeanSalary, m.MeanSalaryOK = Mean(f, ColSalary)
	m.MeanPerformance, m.MeanPerformanceOK = Mean(f, ColPerformanceScore)
	return m
}

// fingerprintTables hashes every loaded cell so unchanged source data can
// reuse the memoized join/normalize output.
func fingerprintTables(tables map[string]*Frame) uint64 {
	h := fnv.New64a()
	// employeeSchema fixes the iteration order; map order must not leak in.
	for _, ts := range employeeSchema {
		f := tables[ts.name]
		if f == nil {
			continue
		}
		_, _ = h.Write([]byte(ts.name))
		_, _ = h.Write([]byte{0x1d})
		for _, c := range f.cols {
			_, _ = h.Write([]byte(c))
			_, _ = h.Write([]byte{0x1f})
		}
		for _, r := range f.rows {
			for _, cell := range r.cells {
				_, _ = h.Write([]byte(cell))
				_, _ = h.Write([]byte{0x1f})
			}
			_, _ = h.Write([]byte{0x1e})
		}
	}
	return h.Sum64()
}
