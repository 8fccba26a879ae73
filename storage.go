package worklens

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Store is the read-only storage collaborator: a SQLite database exposing
// the fixed employee schema. The core never writes through a Store; the
// only writer is the dataset builder, which seeds a fresh database before
// handing it over.
type Store struct {
	db *sql.DB
}

// OpenStore opens a SQLite database at dsn (a file path or ":memory:") and
// verifies the connection.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("worklens: failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("worklens: failed to connect to database: %w", err)
	}
	return &Store{db: db}, nil
}

// newStore wraps an already-open handle; ownership transfers to the Store.
func newStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that need raw SQL access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadTables issues the fixed read query for every schema table and returns
// one frame per table. A single connection is acquired for the whole run
// and released on all paths. A failed query is not fatal: the table is
// substituted with an empty frame and the failure is reported as a Notice.
func (s *Store) LoadTables(ctx context.Context) (map[string]*Frame, []Notice, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("worklens: failed to acquire connection: %w", err)
	}
	defer conn.Close()

	tables := make(map[string]*Frame, len(employeeSchema))
	var notices []Notice
	for _, ts := range employeeSchema {
		frame, err := loadTable(ctx, conn, ts)
		if err != nil {
			notices = append(notices, Notice{Table: ts.name, Err: err})
			frame = newFrame(ts.columns, nil)
		}
		tables[ts.name] = frame
	}
	return tables, notices, nil
}

// loadTable reads one table as raw text cells. NULLs load as empty strings,
// which the normalizer later turns into missing markers for numeric
// columns.
func loadTable(ctx context.Context, conn *sql.Conn, ts tableSchema) (*Frame, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(ts.columns, ", "), ts.name)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		cells := make([]sql.NullString, len(ts.columns))
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec := make(Record, len(cells))
		for i, c := range cells {
			if c.Valid {
				rec[i] = c.String
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return newFrame(append(header{}, ts.columns...), records), nil
}
