// Package config loads the CLI's YAML configuration file, the way the
// teacher's graphdb-upgrade command loads a cluster.yaml (cmd/main.go's
// package-level flag/config split, adapted into a struct + Load function
// here so the CLI's settings can also come from a file). Struct-tag validation
// follows dd0wney-graphdb/pkg/validation/validator.go's package-level
// *validator.Validate singleton.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the CLI's on-disk configuration: which profile to generate
// under, where to cache generated source, and optional metrics exposure.
type Config struct {
	Profile     string `yaml:"profile" validate:"required,oneof=c python"`
	OutputDir   string `yaml:"output_dir" validate:"required"`
	CacheDir    string `yaml:"cache_dir"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the built-in configuration used when no config file is
// given.
func Default() *Config {
	return &Config{
		Profile:   "c",
		OutputDir: ".",
		CacheDir:  ".cellml-cache",
	}
}

// Load reads and validates a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
