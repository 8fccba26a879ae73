package worklens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("joins and normalizes the seeded dataset", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)
		p := NewPipeline(newStore(db))
		defer p.Close()

		snap, err := p.Snapshot(t.Context())
		require.NoError(t, err)
		require.Empty(t, snap.Notices())

		f := snap.Frame()
		require.Equal(t, 3, f.Len())

		salary, ok := f.Value(0, ColSalary)
		require.True(t, ok)
		assert.Equal(t, 50000.0, salary)

		tenure, ok := f.Value(1, ColTenure)
		require.True(t, ok)
		assert.Equal(t, 9.2, tenure)
	})

	t.Run("memoizes while source tables are unchanged", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)
		p := NewPipeline(newStore(db))
		defer p.Close()

		first, err := p.Snapshot(t.Context())
		require.NoError(t, err)
		second, err := p.Snapshot(t.Context())
		require.NoError(t, err)
		assert.Same(t, first, second)
	})

	t.Run("recomputes when source data changes", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)
		p := NewPipeline(newStore(db))
		defer p.Close()

		first, err := p.Snapshot(t.Context())
		require.NoError(t, err)

		_, err = db.Exec(`UPDATE Salary SET Salary = 55000 WHERE Employee_ID = '1'`)
		require.NoError(t, err)

		second, err := p.Snapshot(t.Context())
		require.NoError(t, err)
		require.NotSame(t, first, second)

		v, ok := second.Frame().Value(0, ColSalary)
		require.True(t, ok)
		assert.Equal(t, 55000.0, v)
	})

	t.Run("failed table query degrades to notice plus empty result", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)
		_, err := db.Exec(`DROP TABLE Performance`)
		require.NoError(t, err)

		p := NewPipeline(newStore(db))
		defer p.Close()

		snap, err := p.Snapshot(t.Context())
		require.NoError(t, err)
		require.Len(t, snap.Notices(), 1)
		assert.Equal(t, TablePerformance, snap.Notices()[0].Table)
		assert.Equal(t, 0, snap.Frame().Len())
	})

	t.Run("filtering the snapshot leaves it unchanged", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)
		p := NewPipeline(newStore(db))
		defer p.Close()

		snap, err := p.Snapshot(t.Context())
		require.NoError(t, err)

		spec := NewFilterSpec().WithMembership(ColGender, "F")
		filtered := snap.Filter(spec)
		assert.Equal(t, 2, filtered.Len())
		assert.Equal(t, 3, snap.Frame().Len())
	})
}

func TestSnapshot_Domains(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	seedEmployeeDB(t, db)
	p := NewPipeline(newStore(db))
	defer p.Close()

	snap, err := p.Snapshot(t.Context())
	require.NoError(t, err)
	d := snap.Domains()

	t.Run("categorical domains are sorted distinct values", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"F", "M"}, d.Categorical[ColGender])
		assert.Equal(t, []string{"A", "B"}, d.Categorical[ColCity])
		assert.Equal(t, []string{"Engineering", "Sales"}, d.Categorical[ColDepartmentName])
	})

	t.Run("numeric domains cover the observed range", func(t *testing.T) {
		t.Parallel()

		r := d.Numeric[ColSalary]
		require.True(t, r.Defined)
		assert.Equal(t, 50000.0, r.Min)
		assert.Equal(t, 90000.0, r.Max)
	})

	t.Run("domains come from the unfiltered set", func(t *testing.T) {
		t.Parallel()

		// Filter first, then re-read domains: identical.
		_ = snap.Filter(NewFilterSpec().WithMembership(ColGender, "F"))
		assert.Equal(t, []string{"F", "M"}, snap.Domains().Categorical[ColGender])
	})
}

func TestFingerprintTables(t *testing.T) {
	t.Parallel()

	mk := func(cell string) map[string]*Frame {
		return map[string]*Frame{
			TableEmployee: newFrame(
				newHeader([]string{ColEmployeeID}),
				[]Record{newRecord([]string{cell})},
			),
		}
	}

	assert.Equal(t, fingerprintTables(mk("1")), fingerprintTables(mk("1")))
	assert.NotEqual(t, fingerprintTables(mk("1")), fingerprintTables(mk("2")))
}
