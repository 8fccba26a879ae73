package worklens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadTables(t *testing.T) {
	t.Parallel()

	t.Run("loads every schema table", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)

		tables, notices, err := newStore(db).LoadTables(t.Context())
		require.NoError(t, err)
		assert.Empty(t, notices)
		require.Len(t, tables, len(employeeSchema))

		emp := tables[TableEmployee]
		require.NotNil(t, emp)
		assert.Equal(t, 3, emp.Len())
		assert.Equal(t, []string{ColEmployeeID, ColName, ColGender, ColAge, ColEducation, ColJoinDate, ColTenure}, emp.Columns())

		name, ok := emp.Cell(0, ColName)
		require.True(t, ok)
		assert.Equal(t, "Alice", name)
	})

	t.Run("numeric storage values load as text cells", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)

		tables, _, err := newStore(db).LoadTables(t.Context())
		require.NoError(t, err)

		sal := tables[TableSalary]
		cell, ok := sal.Cell(0, ColSalary)
		require.True(t, ok)
		// REAL affinity: SQLite hands back a float representation.
		v, parsed := parseNumeric(cell)
		require.True(t, parsed)
		assert.Equal(t, 50000.0, v)
	})

	t.Run("missing table degrades to empty frame plus notice", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)
		_, err := db.Exec(`DROP TABLE Location`)
		require.NoError(t, err)

		tables, notices, err := newStore(db).LoadTables(t.Context())
		require.NoError(t, err)
		require.Len(t, notices, 1)
		assert.Equal(t, TableLocation, notices[0].Table)
		assert.NotEmpty(t, notices[0].String())

		loc := tables[TableLocation]
		require.NotNil(t, loc)
		assert.Equal(t, 0, loc.Len())
		assert.Equal(t, []string{ColEmployeeID, ColCity, ColCountry}, loc.Columns())
	})

	t.Run("empty database yields all notices, no error", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)

		tables, notices, err := newStore(db).LoadTables(t.Context())
		require.NoError(t, err)
		assert.Len(t, notices, len(employeeSchema))
		assert.Len(t, tables, len(employeeSchema))
	})

	t.Run("NULL cells load as empty strings", func(t *testing.T) {
		t.Parallel()

		db := newTestDB(t)
		seedEmployeeDB(t, db)
		_, err := db.Exec(`UPDATE Salary SET Salary = NULL WHERE Employee_ID = '1'`)
		require.NoError(t, err)

		tables, _, err := newStore(db).LoadTables(t.Context())
		require.NoError(t, err)

		cell, ok := tables[TableSalary].Cell(0, ColSalary)
		require.True(t, ok)
		assert.Equal(t, "", cell)
	})
}
