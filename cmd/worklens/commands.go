package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/worklens/worklens"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print key metrics and grouped breakdowns for the filtered dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		spec, err := buildFilterSpec(cmd)
		if err != nil {
			return err
		}

		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		snap, err := p.Snapshot(ctx)
		if err != nil {
			return err
		}
		logNotices(snap)

		report := worklens.BuildReport(snap, spec)
		printReport(cmd, report)

		top := worklens.TopN(report.Filtered, cfg.TopN, worklens.ColSalary,
			worklens.ColName, worklens.ColSalary, worklens.ColCity, worklens.ColDepartmentName)
		cmd.Printf("\nTop %d by salary\n", cfg.TopN)
		printFrame(cmd, top)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the filtered dataset and its summary as an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		spec, err := buildFilterSpec(cmd)
		if err != nil {
			return err
		}

		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		snap, err := p.Snapshot(ctx)
		if err != nil {
			return err
		}
		logNotices(snap)

		report := worklens.BuildReport(snap, spec)
		path := filepath.Join(cfg.OutputDir, "report.xlsx")
		if err := report.WriteWorkbook(path); err != nil {
			return err
		}
		logger.Info("workbook written",
			zap.String("path", path), zap.Int("rows", report.Filtered.Len()))
		return nil
	},
}

var (
	dumpFormat      string
	dumpCompression string
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the filtered dataset as a delimited file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		spec, err := buildFilterSpec(cmd)
		if err != nil {
			return err
		}
		opts, err := dumpOptions()
		if err != nil {
			return err
		}

		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		snap, err := p.Snapshot(ctx)
		if err != nil {
			return err
		}
		logNotices(snap)

		filtered := snap.Filter(spec)
		path, err := worklens.DumpFrame(filtered, cfg.OutputDir, "filtered", opts)
		if err != nil {
			return err
		}
		logger.Info("dump written", zap.String("path", path), zap.Int("rows", filtered.Len()))
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "csv", "output format: csv or tsv")
	dumpCmd.Flags().StringVar(&dumpCompression, "compression", "none", "compression: none, gz, xz, or zstd")
}

// dumpOptions parses the dump command's format flags.
func dumpOptions() (worklens.DumpOptions, error) {
	opts := worklens.NewDumpOptions()
	switch strings.ToLower(dumpFormat) {
	case "csv":
		opts = opts.WithFormat(worklens.OutputFormatCSV)
	case "tsv":
		opts = opts.WithFormat(worklens.OutputFormatTSV)
	default:
		return opts, fmt.Errorf("unknown format %q", dumpFormat)
	}
	switch strings.ToLower(dumpCompression) {
	case "none":
	case "gz":
		opts = opts.WithCompression(worklens.CompressionGZ)
	case "xz":
		opts = opts.WithCompression(worklens.CompressionXZ)
	case "zstd", "zst":
		opts = opts.WithCompression(worklens.CompressionZSTD)
	default:
		return opts, fmt.Errorf("unknown compression %q", dumpCompression)
	}
	return opts, nil
}

// printReport writes the headline metrics and grouped means to stdout.
func printReport(cmd *cobra.Command, r *worklens.Report) {
	cmd.Printf("Total employees: %d\n", r.Metrics.Employees)
	if r.Metrics.MeanSalaryOK {
		cmd.Printf("Average salary: %.2f\n", r.Metrics.MeanSalary)
	}
	if r.Metrics.MeanPerformanceOK {
		cmd.Printf("Average performance score: %.2f\n", r.Metrics.MeanPerformance)
	}
	if r.SalaryPerformanceOK {
		cmd.Printf("Salary/performance correlation: %.3f\n", r.SalaryPerformance)
	}

	if len(r.SalaryByCity) > 0 {
		cmd.Println("\nAverage salary by city")
		for _, g := range r.SalaryByCity {
			cmd.Printf("  %-20s %12.2f  (n=%d)\n", g.Key, g.Mean, g.Count)
		}
	}
	if len(r.SalaryByDepartment) > 0 {
		cmd.Println("\nAverage salary by department")
		for _, g := range r.SalaryByDepartment {
			cmd.Printf("  %-20s %12.2f  (n=%d)\n", g.Key, g.Mean, g.Count)
		}
	}
}

// printFrame renders a frame as aligned columns.
func printFrame(cmd *cobra.Command, f *worklens.Frame) {
	cols := f.Columns()
	cmd.Println("  " + strings.Join(cols, "\t"))
	for i := 0; i < f.Len(); i++ {
		cmd.Println("  " + strings.Join(f.Record(i), "\t"))
	}
}
