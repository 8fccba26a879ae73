package main

import (
	"errors"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds CLI configuration. Values come from an optional YAML file
// plus environment variables; environment variables override YAML.
type Config struct {
	// DBPath is the SQLite employee database to open.
	DBPath string `yaml:"db_path" env:"WORKLENS_DB" env-default:"employee_database.db"`

	// SeedDir, when set, seeds an in-memory database from the exports in
	// this directory instead of opening DBPath.
	SeedDir string `yaml:"seed_dir" env:"WORKLENS_SEED_DIR" env-default:""`

	// OutputDir receives workbook and dump files.
	OutputDir string `yaml:"output_dir" env:"WORKLENS_OUTPUT_DIR" env-default:"./out"`

	// TopN is the size of top-earner listings.
	TopN int `yaml:"top_n" env:"WORKLENS_TOP_N" env-default:"10"`
}

// loadConfig reads the config file if it exists and applies environment
// overrides. A missing file is not an error; environment variables and
// defaults still apply.
func loadConfig(path string) (Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(path, &cfg)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
