package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dcmdecode.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.Output.Format != "raw" {
		t.Errorf("output.format default = %q, want raw", cfg.Output.Format)
	}
	if cfg.Decode.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("decode.max_file_size default = %d, want %d", cfg.Decode.MaxFileSize, DefaultMaxFileSize)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: DEBUG
  format: json
decode:
  frame_by_frame: true
  max_file_size: 1048576
output:
  format: png
  dir: /tmp/out
  window: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if !cfg.Decode.FrameByFrame || cfg.Decode.WholeFile || cfg.Decode.MaxFileSize != 1048576 {
		t.Errorf("decode = %+v", cfg.Decode)
	}
	if cfg.Output.Format != "png" || cfg.Output.Dir != "/tmp/out" || !cfg.Output.Window {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "log: [", "failed to parse config"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad log format", "log:\n  format: xml\n", "log.format"},
		{"negative size", "decode:\n  max_file_size: -1\n", "decode.max_file_size"},
		{"oversized limit", "decode:\n  max_file_size: 4294967296\n", "decode.max_file_size"},
		{"exclusive modes", "decode:\n  whole_file: true\n  frame_by_frame: true\n", "mutually exclusive"},
		{"bad output", "output:\n  format: bmp\n", "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}
