package worklens

import (
	"context"
)

// Open opens the employee database at dsn and returns a pipeline over it.
//
// The database is expected to expose the fixed schema tables (Employee,
// Salary, Performance, Location, Department, Employee_Department). Missing
// tables are not fatal: their read queries fail per run and are substituted
// with empty row sets, surfaced as Notices on the snapshot.
//
// Example usage:
//
//	p, err := worklens.Open("employee_database.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//
//	snap, err := p.Snapshot(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	spec := worklens.NewFilterSpec().
//		WithMembership(worklens.ColGender, "F").
//		WithRange(worklens.ColSalary, 60000, 100000)
//	filtered := snap.Filter(spec)
//
//	byCity := worklens.GroupedMean(filtered, worklens.ColCity, worklens.ColSalary)
//	corr, ok := worklens.Correlation(filtered, worklens.ColSalary, worklens.ColPerformanceScore)
func Open(dsn string) (*Pipeline, error) {
	return OpenContext(context.Background(), dsn)
}

// OpenContext is Open with context support for connection establishment.
func OpenContext(ctx context.Context, dsn string) (*Pipeline, error) {
	store, err := OpenStore(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewPipeline(store), nil
}
