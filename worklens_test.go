package worklens

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestDB opens an in-memory SQLite database pinned to one connection.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedEmployeeDB creates the full schema and inserts the three-employee
// fixture used across tests:
//
//	Alice  F  city A  country X  Engineering  salary 50000
//	Bob    M  city B  country Y  Sales        salary 90000
//	Carol  F  city A  country X  Engineering  salary 70000
func seedEmployeeDB(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()

	stmts := []string{
		`CREATE TABLE Employee (Employee_ID TEXT, Name TEXT, Gender TEXT, Age REAL, Education TEXT, Join_Date TEXT, Tenure REAL)`,
		`CREATE TABLE Salary (Employee_ID TEXT, Salary REAL, Annual_Bonus REAL, Bonus_Percentage REAL)`,
		`CREATE TABLE Performance (Employee_ID TEXT, Performance_Score REAL, Working_Hours REAL)`,
		`CREATE TABLE Location (Employee_ID TEXT, City TEXT, Country TEXT)`,
		`CREATE TABLE Department (Department_ID TEXT, Department_Name TEXT)`,
		`CREATE TABLE Employee_Department (Employee_ID TEXT, Department_ID TEXT)`,

		`INSERT INTO Employee VALUES
			('1', 'Alice', 'F', 29, 'Bachelors', '2020-01-15', 4.5),
			('2', 'Bob',   'M', 41, 'Masters',   '2015-03-01', 9.2),
			('3', 'Carol', 'F', 35, 'PhD',       '2018-07-23', 6.1)`,
		`INSERT INTO Salary VALUES
			('1', 50000, 3000, 6.0),
			('2', 90000, 9000, 10.0),
			('3', 70000, 5000, 7.1)`,
		`INSERT INTO Performance VALUES
			('1', 4.2, 40),
			('2', 3.9, 45),
			('3', 4.8, 38)`,
		`INSERT INTO Location VALUES
			('1', 'A', 'X'),
			('2', 'B', 'Y'),
			('3', 'A', 'X')`,
		`INSERT INTO Department VALUES
			('D1', 'Engineering'),
			('D2', 'Sales')`,
		`INSERT INTO Employee_Department VALUES
			('1', 'D1'),
			('2', 'D2'),
			('3', 'D1')`,
	}
	for _, stmt := range stmts {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
}

// newScenarioFrame builds a normalized three-row frame:
// [{50000,F,A}, {90000,M,B}, {70000,F,A}].
func newScenarioFrame() *Frame {
	f := newFrame(
		newHeader([]string{ColSalary, ColGender, ColCity}),
		[]Record{
			newRecord([]string{"50000", "F", "A"}),
			newRecord([]string{"90000", "M", "B"}),
			newRecord([]string{"70000", "F", "A"}),
		},
	)
	return normalizeNumeric(f, []string{ColSalary})
}

func TestOpenContext(t *testing.T) {
	t.Parallel()

	t.Run("open and snapshot a seeded database file", func(t *testing.T) {
		t.Parallel()

		path := t.TempDir() + "/employee_database.db"
		db, err := sql.Open("sqlite", path)
		require.NoError(t, err)
		seedEmployeeDB(t, db)
		require.NoError(t, db.Close())

		p, err := OpenContext(context.Background(), path)
		require.NoError(t, err)
		defer p.Close()

		snap, err := p.Snapshot(context.Background())
		require.NoError(t, err)
		require.Equal(t, 3, snap.Frame().Len())
		require.Empty(t, snap.Notices())
	})

	t.Run("snapshot after close fails", func(t *testing.T) {
		t.Parallel()

		p, err := OpenContext(context.Background(), t.TempDir()+"/x.db")
		require.NoError(t, err)
		require.NoError(t, p.Close())

		_, err = p.Snapshot(context.Background())
		require.ErrorIs(t, err, ErrClosed)
	})
}
