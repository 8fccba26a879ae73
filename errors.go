package worklens

import (
	"errors"
	"fmt"
)

// Standard error values for consistency across the package
var (
	// ErrUnknownColumn indicates a column name absent from the frame
	ErrUnknownColumn = errors.New("worklens: unknown column")

	// ErrUnknownTable indicates a file or query that maps to no schema table
	ErrUnknownTable = errors.New("worklens: unknown table")

	// ErrUnsupportedFormat indicates an unsupported seed file format
	ErrUnsupportedFormat = errors.New("worklens: unsupported file format")

	// ErrEmptyData indicates a seed file with no records
	ErrEmptyData = errors.New("worklens: empty data source")

	// ErrNoInput indicates a builder with no paths or filesystems added
	ErrNoInput = errors.New("worklens: no input provided")

	// ErrBadBinSpec indicates bin boundaries and labels that do not line up
	ErrBadBinSpec = errors.New("worklens: bin labels must number one fewer than boundaries")

	// ErrClosed indicates use of a pipeline after Close
	ErrClosed = errors.New("worklens: pipeline is closed")
)

// Notice reports a non-fatal load failure: a table whose read query failed
// and was substituted with an empty row set. Notices are surfaced to the
// display collaborator, never returned as errors.
type Notice struct {
	Table string
	Err   error
}

// String formats the notice for display.
func (n Notice) String() string {
	return fmt.Sprintf("worklens: loading table %s failed: %v (substituted empty row set)", n.Table, n.Err)
}
