package worklens

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Report bundles the pieces of one rendered interaction: the filtered row
// set, the headline metrics, and the grouped breakdowns the dashboard
// charts are built from.
type Report struct {
	// Filtered is the row set after the interaction's FilterSpec.
	Filtered *Frame
	// Metrics are the headline numbers over Filtered.
	Metrics KeyMetrics
	// SalaryByCity and SalaryByDepartment are the grouped-mean breakdowns.
	SalaryByCity       []GroupMean
	SalaryByDepartment []GroupMean
	// SalaryPerformance is the Salary × Performance_Score correlation;
	// SalaryPerformanceOK is false when it is undefined.
	SalaryPerformance   float64
	SalaryPerformanceOK bool
}

// BuildReport assembles a report from a snapshot and a filter spec.
func BuildReport(snap *Snapshot, spec FilterSpec) *Report {
	filtered := snap.Filter(spec)
	r := &Report{
		Filtered:           filtered,
		Metrics:            Metrics(filtered),
		SalaryByCity:       GroupedMean(filtered, ColCity, ColSalary),
		SalaryByDepartment: GroupedMean(filtered, ColDepartmentName, ColSalary),
	}
	r.SalaryPerformance, r.SalaryPerformanceOK = Correlation(filtered, ColSalary, ColPerformanceScore)
	return r
}

// Sheet names of the exported workbook
const (
	sheetRows    = "Filtered Rows"
	sheetSummary = "Summary"
)

// WriteWorkbook exports the report as an XLSX workbook with one sheet of
// filtered rows and one summary sheet.
func (r *Report) WriteWorkbook(path string) error {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if err := wb.SetSheetName(wb.GetSheetName(0), sheetRows); err != nil {
		return fmt.Errorf("worklens: failed to name sheet: %w", err)
	}
	if err := writeRowsSheet(wb, r.Filtered); err != nil {
		return err
	}
	if _, err := wb.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("worklens: failed to create summary sheet: %w", err)
	}
	if err := r.writeSummarySheet(wb); err != nil {
		return err
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("worklens: failed to save workbook: %w", err)
	}
	return nil
}

// writeRowsSheet writes the filtered frame, header first.
func writeRowsSheet(wb *excelize.File, f *Frame) error {
	writeRow := func(rowIdx int, cells []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		values := make([]any, len(cells))
		for i, v := range cells {
			values[i] = v
		}
		return wb.SetSheetRow(sheetRows, cell, &values)
	}

	if err := writeRow(1, f.Columns()); err != nil {
		return fmt.Errorf("worklens: failed to write header row: %w", err)
	}
	for i := 0; i < f.Len(); i++ {
		if err := writeRow(i+2, f.Record(i)); err != nil {
			return fmt.Errorf("worklens: failed to write row %d: %w", i, err)
		}
	}
	return nil
}

// writeSummarySheet writes the key metrics and grouped breakdowns.
func (r *Report) writeSummarySheet(wb *excelize.File) error {
	rows := [][]any{
		{"Total Employees", r.Metrics.Employees},
	}
	if r.Metrics.MeanSalaryOK {
		rows = append(rows, []any{"Average Salary", r.Metrics.MeanSalary})
	}
	if r.Metrics.MeanPerformanceOK {
		rows = append(rows, []any{"Average Performance Score", r.Metrics.MeanPerformance})
	}
	if r.SalaryPerformanceOK {
		rows = append(rows, []any{"Salary / Performance Correlation", r.SalaryPerformance})
	}

	rows = append(rows, []any{}, []any{"Average Salary by City"})
	for _, g := range r.SalaryByCity {
		rows = append(rows, []any{g.Key, g.Mean, g.Count})
	}
	rows = append(rows, []any{}, []any{"Average Salary by Department"})
	for _, g := range r.SalaryByDepartment {
		rows = append(rows, []any{g.Key, g.Mean, g.Count})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("worklens: failed to compute cell name: %w", err)
		}
		if err := wb.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("worklens: failed to write summary row: %w", err)
		}
	}
	return nil
}

// DumpFrame writes a frame as a delimited file into dir, named
// name + format + compression extensions (for example filtered.csv.gz).
// It returns the written path.
func DumpFrame(f *Frame, dir, name string, opts ...DumpOptions) (string, error) {
	options := NewDumpOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("worklens: failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, name+options.FileExtension())

	writer, cleanup, err := createCompressedFile(path, options.Compression)
	if err != nil {
		return "", err
	}

	w := csv.NewWriter(writer)
	w.Comma = options.Format.delimiter()

	writeErr := w.Write(f.Columns())
	for i := 0; i < f.Len() && writeErr == nil; i++ {
		writeErr = w.Write(f.Record(i))
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}

	if err := cleanup(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return "", fmt.Errorf("worklens: failed to dump frame to %s: %w", path, writeErr)
	}
	return path, nil
}
