package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/worklens/worklens"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Filter flags
	genders     []string
	cities      []string
	countries   []string
	departments []string
	salaryRange []float64
	ageRange    []float64
	tenureRange []float64

	cfg    Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "worklens",
	Short: "worklens - employee analytics over a SQLite dataset",
	Long: `worklens loads a normalized employee dataset from SQLite (or seeds one
from CSV/TSV/Parquet exports), joins it into a single analytic row set,
applies the requested filters, and prints or exports summary statistics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "worklens.yaml", "config file path")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pf.StringSliceVar(&genders, "gender", nil, "keep only these genders")
	pf.StringSliceVar(&cities, "city", nil, "keep only these cities")
	pf.StringSliceVar(&countries, "country", nil, "keep only these countries")
	pf.StringSliceVar(&departments, "department", nil, "keep only these departments")
	pf.Float64SliceVar(&salaryRange, "salary", nil, "salary range as min,max (inclusive)")
	pf.Float64SliceVar(&ageRange, "age", nil, "age range as min,max (inclusive)")
	pf.Float64SliceVar(&tenureRange, "tenure", nil, "tenure range as min,max (inclusive)")

	rootCmd.AddCommand(summaryCmd, reportCmd, dumpCmd)
}

// openPipeline opens the configured database, or seeds an in-memory one
// when a seed directory is configured.
func openPipeline(ctx context.Context) (*worklens.Pipeline, error) {
	if cfg.SeedDir != "" {
		logger.Debug("seeding in-memory database", zap.String("dir", cfg.SeedDir))
		b, err := worklens.NewBuilder().AddPath(cfg.SeedDir).Build(ctx)
		if err != nil {
			return nil, err
		}
		return b.Open(ctx)
	}
	logger.Debug("opening database", zap.String("path", cfg.DBPath))
	return worklens.OpenContext(ctx, cfg.DBPath)
}

// buildFilterSpec translates the set flags into a filter spec. Flags left
// unset contribute no predicate.
func buildFilterSpec(cmd *cobra.Command) (worklens.FilterSpec, error) {
	spec := worklens.NewFilterSpec()
	membership := []struct {
		flag   string
		column string
		values []string
	}{
		{"gender", worklens.ColGender, genders},
		{"city", worklens.ColCity, cities},
		{"country", worklens.ColCountry, countries},
		{"department", worklens.ColDepartmentName, departments},
	}
	for _, m := range membership {
		if cmd.Flags().Changed(m.flag) {
			spec = spec.WithMembership(m.column, m.values...)
		}
	}

	ranges := []struct {
		flag   string
		column string
		bounds []float64
	}{
		{"salary", worklens.ColSalary, salaryRange},
		{"age", worklens.ColAge, ageRange},
		{"tenure", worklens.ColTenure, tenureRange},
	}
	for _, r := range ranges {
		if !cmd.Flags().Changed(r.flag) {
			continue
		}
		if len(r.bounds) != 2 {
			return spec, fmt.Errorf("--%s expects exactly min,max", r.flag)
		}
		spec = spec.WithRange(r.column, r.bounds[0], r.bounds[1])
	}
	return spec, nil
}

// logNotices reports non-fatal load failures.
func logNotices(snap *worklens.Snapshot) {
	for _, n := range snap.Notices() {
		logger.Warn("table load failed, substituted empty row set",
			zap.String("table", n.Table), zap.Error(n.Err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
