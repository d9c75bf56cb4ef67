package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the dcmdecode configuration
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Decode DecodeConfig `yaml:"decode"`
	Output OutputConfig `yaml:"output"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DecodeConfig contains decode settings
type DecodeConfig struct {
	WholeFile    bool  `yaml:"whole_file"`     // decode through the single-buffer file entry point
	FrameByFrame bool  `yaml:"frame_by_frame"` // one native call per frame
	MaxFileSize  int64 `yaml:"max_file_size"`  // bytes; larger inputs and elements are rejected (default: 512 MiB, max 2 GiB-1)
}

// OutputConfig contains output settings
type OutputConfig struct {
	Format string `yaml:"format"` // raw, png, tiff
	Dir    string `yaml:"dir"`    // default: next to the input file
	Window bool   `yaml:"window"` // map 16-bit images to 8 bits using min/max
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	// Validate only fills defaults on an empty config.
	_ = Validate(cfg)
	return cfg
}

// Load reads and parses a YAML configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
