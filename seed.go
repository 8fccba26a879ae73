package worklens

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// fileType represents supported seed file formats after compression
// extensions are stripped.
type fileType int

const (
	fileTypeCSV fileType = iota
	fileTypeTSV
	fileTypeParquet
	fileTypeUnsupported
)

// Seed file extensions
const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extParquet = ".parquet"
)

// baseFileType determines the format of a seed file, ignoring any trailing
// compression extension.
func baseFileType(path string) fileType {
	switch strings.ToLower(filepath.Ext(removeCompressionExtension(path))) {
	case extCSV:
		return fileTypeCSV
	case extTSV:
		return fileTypeTSV
	case extParquet:
		return fileTypeParquet
	default:
		return fileTypeUnsupported
	}
}

// tableNameFromPath derives the schema table a seed file feeds: the file
// base name with compression and format extensions removed.
func tableNameFromPath(path string) string {
	name := filepath.Base(removeCompressionExtension(path))
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// seedTable is one parsed seed file, projected onto its schema columns.
type seedTable struct {
	schema  tableSchema
	records []Record
}

// Builder seeds an in-memory employee database from data files, so a
// directory of table exports stands in for a prebuilt SQLite database.
// Accepted formats: CSV, TSV, and Parquet, optionally compressed with
// gzip, bzip2, xz, or zstd. Each file must be named after the schema table
// it feeds (Employee.csv, Salary.csv.gz, Performance.parquet, ...).
//
// Usage follows the build-then-open pattern:
//
//	pipeline, err := NewBuilder().
//		AddPath("./exports").
//		Build(ctx)
//	if err != nil { ... }
//	p, err := pipeline.Open(ctx)
type Builder struct {
	paths       []string
	filesystems []fs.FS

	tables map[string]*seedTable // populated by Build, keyed by table name
	built  bool
}

// NewBuilder creates an empty dataset builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddPath adds a seed file or a directory of seed files.
func (b *Builder) AddPath(path string) *Builder {
	b.paths = append(b.paths, path)
	return b
}

// AddPaths adds multiple paths at once.
func (b *Builder) AddPaths(paths ...string) *Builder {
	for _, p := range paths {
		b.AddPath(p)
	}
	return b
}

// AddFS adds all supported seed files found in a filesystem, such as an
// embed.FS carrying a bundled dataset.
func (b *Builder) AddFS(filesystem fs.FS) *Builder {
	b.filesystems = append(b.filesystems, filesystem)
	return b
}

// Build collects and parses all inputs. A file explicitly added whose name
// matches no schema table is an error; unsupported or unknown files inside
// directories and filesystems are skipped. Two files feeding the same table
// is an error.
func (b *Builder) Build(ctx context.Context) (*Builder, error) {
	if len(b.paths) == 0 && len(b.filesystems) == 0 {
		return nil, ErrNoInput
	}
	b.tables = make(map[string]*seedTable)

	for _, path := range b.paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("worklens: failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			if err := b.collectDir(ctx, path); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.addFile(ctx, path); err != nil {
			return nil, err
		}
	}

	for _, filesystem := range b.filesystems {
		if err := b.collectFS(ctx, filesystem); err != nil {
			return nil, err
		}
	}

	b.built = true
	return b, nil
}

// collectDir scans a directory (non-recursively, matching how dataset
// exports are laid out) for seed files.
func (b *Builder) collectDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("worklens: failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if baseFileType(path) == fileTypeUnsupported {
			continue
		}
		if _, ok := schemaFor(tableNameFromPath(path)); !ok {
			continue
		}
		if err := b.addFile(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// collectFS scans a filesystem tree for seed files.
func (b *Builder) collectFS(ctx context.Context, filesystem fs.FS) error {
	return fs.WalkDir(filesystem, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || baseFileType(path) == fileTypeUnsupported {
			return nil
		}
		if _, ok := schemaFor(tableNameFromPath(path)); !ok {
			return nil
		}
		f, err := filesystem.Open(path)
		if err != nil {
			return fmt.Errorf("worklens: failed to open %s: %w", path, err)
		}
		defer f.Close()
		return b.addReader(ctx, path, f)
	})
}

// addFile parses one seed file from the OS filesystem.
func (b *Builder) addFile(ctx context.Context, path string) error {
	reader, cleanup, err := openCompressedFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	return b.parseInto(ctx, path, reader)
}

// addReader parses one seed file from an arbitrary reader, decompressing
// per the path's extension.
func (b *Builder) addReader(ctx context.Context, path string, r io.Reader) error {
	reader, cleanup, err := newCompressionReader(r, detectCompressionType(path))
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	return b.parseInto(ctx, path, reader)
}

// parseInto parses an already-decompressed stream and registers the result.
func (b *Builder) parseInto(ctx context.Context, path string, reader io.Reader) error {
	schema, ok := schemaFor(tableNameFromPath(path))
	if !ok {
		return fmt.Errorf("%w: %s maps to no schema table", ErrUnknownTable, path)
	}
	if _, dup := b.tables[schema.name]; dup {
		return fmt.Errorf("worklens: duplicate seed file for table %s (%s)", schema.name, path)
	}

	var cols header
	var records []Record
	var err error
	switch baseFileType(path) {
	case fileTypeCSV:
		cols, records, err = parseDelimited(reader, ',')
	case fileTypeTSV:
		cols, records, err = parseDelimited(reader, '\t')
	case fileTypeParquet:
		cols, records, err = parseParquet(ctx, reader)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("worklens: failed to parse %s: %w", path, err)
	}

	projected, err := projectToSchema(schema, cols, records)
	if err != nil {
		return fmt.Errorf("worklens: %s: %w", path, err)
	}
	b.tables[schema.name] = projected
	return nil
}

// parseDelimited reads a header row plus records from CSV or TSV data.
func parseDelimited(reader io.Reader, comma rune) (header, []Record, error) {
	r := csv.NewReader(reader)
	r.Comma = comma

	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyData
	}
	cols := newHeader(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, newRecord(row))
	}
	return cols, records, nil
}

// parseParquet reads a parquet stream into text records. Parquet needs
// random access, so the stream is buffered whole.
func parseParquet(ctx context.Context, reader io.Reader) (header, []Record, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, ErrEmptyData
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	cols := make(header, schema.NumFields())
	for i, field := range schema.Fields() {
		cols[i] = field.Name
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	var records []Record
	for tableReader.Next() {
		batch := tableReader.Record()
		numRows := batch.NumRows()
		for i := int64(0); i < numRows; i++ {
			rec := make(Record, batch.NumCols())
			for j, col := range batch.Columns() {
				if col.IsNull(int(i)) {
					continue
				}
				rec[j] = col.ValueStr(int(i))
			}
			records = append(records, rec)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading table records: %w", err)
	}
	return cols, records, nil
}

// projectToSchema reorders file columns into the declared schema order.
// Extra file columns are dropped; a missing declared column is an error.
// Matching is case-insensitive.
func projectToSchema(schema tableSchema, cols header, records []Record) (*seedTable, error) {
	mapping := make([]int, len(schema.columns))
	for i, want := range schema.columns {
		mapping[i] = -1
		for j, have := range cols {
			if strings.EqualFold(want, have) {
				mapping[i] = j
				break
			}
		}
		if mapping[i] < 0 {
			return nil, fmt.Errorf("%w: missing column %s", ErrUnknownColumn, want)
		}
	}

	projected := make([]Record, len(records))
	for ri, rec := range records {
		out := make(Record, len(mapping))
		for i, j := range mapping {
			if j < len(rec) {
				out[i] = rec[j]
			}
		}
		projected[ri] = out
	}
	return &seedTable{schema: schema, records: projected}, nil
}

// Open seeds an in-memory SQLite database with the built tables and
// returns a pipeline over it. Tables without a seed file are created
// empty, which downstream stages treat like any other empty row set.
func (b *Builder) Open(ctx context.Context) (*Pipeline, error) {
	if !b.built {
		return nil, fmt.Errorf("worklens: Open called before Build")
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("worklens: failed to open in-memory database: %w", err)
	}
	// A pooled second connection would see its own empty :memory: database,
	// so the pool is pinned to a single long-lived connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := seedDatabase(ctx, db, b.tables); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPipeline(newStore(db)), nil
}

// seedDatabase creates the schema tables and inserts the parsed records.
func seedDatabase(ctx context.Context, db *sql.DB, tables map[string]*seedTable) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("worklens: failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ts := range employeeSchema {
		if _, err := tx.ExecContext(ctx, createTableSQL(ts)); err != nil {
			return fmt.Errorf("worklens: failed to create table %s: %w", ts.name, err)
		}
		st := tables[ts.name]
		if st == nil || len(st.records) == 0 {
			continue
		}
		if err := insertRecords(ctx, tx, ts, st.records); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("worklens: failed to commit seed transaction: %w", err)
	}
	return nil
}

// createTableSQL builds the DDL for one schema table. Designated numeric
// columns get REAL affinity; everything else is TEXT.
func createTableSQL(ts tableSchema) string {
	var sb strings.Builder
	sb.WriteString(`CREATE TABLE IF NOT EXISTS "`)
	sb.WriteString(ts.name)
	sb.WriteString(`" (`)
	for i, col := range ts.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('"')
		sb.WriteString(col)
		sb.WriteString(`" `)
		sb.WriteString(columnAffinity(col))
	}
	sb.WriteString(")")
	return sb.String()
}

// columnAffinity maps a column to its SQLite type affinity.
func columnAffinity(col string) string {
	for _, n := range numericColumns {
		if n == col {
			return "REAL"
		}
	}
	return "TEXT"
}

// insertRecords bulk-inserts the records of one table inside the seed
// transaction.
func insertRecords(ctx context.Context, tx *sql.Tx, ts tableSchema, records []Record) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ts.columns)), ", ")
	quoted := make([]string, len(ts.columns))
	for i, c := range ts.columns {
		quoted[i] = `"` + c + `"`
	}
	query := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`, ts.name, strings.Join(quoted, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("worklens: failed to prepare insert for %s: %w", ts.name, err)
	}
	defer stmt.Close()

	args := make([]any, len(ts.columns))
	for _, rec := range records {
		for i := range args {
			args[i] = rec[i]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("worklens: failed to insert into %s: %w", ts.name, err)
		}
	}
	return nil
}
