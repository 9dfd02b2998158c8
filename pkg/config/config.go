// Package config loads dataset-build configuration from YAML files and
// provides defaults.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from YAML.
type Config struct {
	// Grid describes the voxel grid of header-free raw volumes.
	Grid struct {
		DimX     int     `yaml:"dimX"`
		DimY     int     `yaml:"dimY"`
		DimZ     int     `yaml:"dimZ"`
		SpacingX float64 `yaml:"spacingX"`
		SpacingY float64 `yaml:"spacingY"`
		SpacingZ float64 `yaml:"spacingZ"`
	} `yaml:"grid"`

	// Margins are the dilation/erosion distances in mm, per axis.
	Margins struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
		Z float64 `yaml:"z"`
	} `yaml:"margins"`

	Statistics struct {
		// ExactBoundaryROC selects the exact boundary-shell extraction.
		ExactBoundaryROC bool `yaml:"exactBoundaryRoc"`
		// PairwiseExternal includes the whole-body structure in pairwise rows.
		PairwiseExternal bool `yaml:"pairwiseExternal"`
		// GTAndSegmentation restricts to a ground-truth/prediction pair.
		GTAndSegmentation bool `yaml:"isGtAndSegmentation"`
		// ExternalName is the whole-body structure name.
		ExternalName string `yaml:"externalName"`
	} `yaml:"statistics"`

	Contours struct {
		// Smoothing is "none" or "small".
		Smoothing string `yaml:"smoothing"`
	} `yaml:"contours"`

	// Workers caps parallel workers; 0 uses all CPUs.
	Workers int `yaml:"workers"`
}

// Default returns a configuration with default values.
func Default() *Config {
	cfg := &Config{}
	cfg.Grid.SpacingX = 1.0
	cfg.Grid.SpacingY = 1.0
	cfg.Grid.SpacingZ = 1.0
	cfg.Statistics.ExternalName = "external"
	cfg.Contours.Smoothing = "small"
	cfg.Workers = runtime.NumCPU()
	return cfg
}

// Load reads a YAML configuration. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
