// Package worklens is an interactive reporting core over a small relational
// employee dataset (Employee, Salary, Performance, Location, Department,
// Employee_Department) stored in SQLite.
//
// The package implements one pipeline: the six normalized tables are read,
// inner-joined on their declared keys into a single denormalized frame, the
// designated numeric columns are coerced (unparsable cells become explicit
// missing markers, never zero), and the resulting frame is narrowed by a
// conjunction of independently declared predicates before summary statistics
// are computed over it.
//
// # Stages
//
//   - Store.LoadTables issues the fixed read queries. A failed query
//     degrades to an empty row set plus a Notice; nothing here is fatal.
//   - joinTables / innerJoin denormalize with inner-join semantics: an
//     employee absent from any source table contributes zero rows.
//   - normalizeNumeric coerces Salary, Annual_Bonus, Bonus_Percentage,
//     Performance_Score, Working_Hours, Age, and Tenure.
//   - FilterSpec.Apply keeps rows satisfying every predicate (logical AND).
//   - GroupedMean, NewCorrelationMatrix, Correlation, Variance, TopN, and
//     Bin answer read-only aggregate queries over the filtered frame.
//
// # Basic Usage
//
//	p, err := worklens.Open("employee_database.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	snap, err := p.Snapshot(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	spec := worklens.NewFilterSpec().
//	    WithMembership(worklens.ColCity, "Berlin", "Tokyo").
//	    WithRange(worklens.ColAge, 30, 45)
//	filtered := snap.Filter(spec)
//
// Every interaction reruns filter and aggregation against the snapshot;
// loading, joining, and normalization are memoized while the source tables
// are unchanged.
//
// # Seeding
//
// When no prebuilt database exists, Builder loads CSV, TSV, or Parquet
// exports (optionally gzip/bzip2/xz/zstd compressed) named after the schema
// tables into an in-memory database:
//
//	p, err := worklens.NewBuilder().AddPath("./exports").Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pipeline, err := p.Open(ctx)
//
// # Exports
//
// Report assembles the filtered rows, headline metrics, and grouped
// breakdowns of one interaction; WriteWorkbook saves it as an XLSX workbook
// and DumpFrame writes any frame as a (optionally compressed) CSV/TSV file.
package worklens
