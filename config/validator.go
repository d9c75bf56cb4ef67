package config

import (
	"fmt"
	"math"
	"strings"
)

// DefaultMaxFileSize is the input size limit when none is configured
const DefaultMaxFileSize = 512 * 1024 * 1024

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validLogFmts = []string{"console", "json"}
	validOutputs = []string{"raw", "png", "tiff", "tif"}
)

// Validate checks if the configuration is valid and fills defaults
func Validate(cfg *Config) error {
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if !contains(validLevels, cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of %v, got %q", validLevels, cfg.Log.Level)
	}

	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if !contains(validLogFmts, cfg.Log.Format) {
		return fmt.Errorf("log.format must be one of %v, got %q", validLogFmts, cfg.Log.Format)
	}

	if cfg.Decode.MaxFileSize < 0 {
		return fmt.Errorf("decode.max_file_size must be >= 0")
	}
	if cfg.Decode.MaxFileSize == 0 {
		cfg.Decode.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Decode.MaxFileSize > math.MaxInt32 {
		return fmt.Errorf("decode.max_file_size must be at most %d", math.MaxInt32)
	}
	if cfg.Decode.WholeFile && cfg.Decode.FrameByFrame {
		return fmt.Errorf("decode.whole_file and decode.frame_by_frame are mutually exclusive")
	}

	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if cfg.Output.Format == "" {
		cfg.Output.Format = "raw"
	}
	if !contains(validOutputs, cfg.Output.Format) {
		return fmt.Errorf("output.format must be one of %v, got %q", validOutputs, cfg.Output.Format)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
