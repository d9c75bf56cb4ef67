// Command dcmdecode decodes the compressed pixel data of DICOM files through
// GDCM and writes the frames as raw samples, PNG or TIFF.
//
// Usage:
//
//	dcmdecode [flags] file.dcm [file.dcm ...]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cocosip/go-dicom-gdcm/config"
	"github.com/cocosip/go-dicom-gdcm/gdcm"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type flags struct {
	configPath   string
	format       string
	outDir       string
	logLevel     string
	logFormat    string
	wholeFile    bool
	frameByFrame bool
	window       bool
	transcode    bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, *flag.FlagSet, error) {
	f := &flags{}
	fs := flag.NewFlagSet("dcmdecode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.format, "format", "", "Output format: raw, png, tiff (overrides config)")
	fs.StringVar(&f.outDir, "out", "", "Output directory (default: next to the input)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "Log format: console, json")
	fs.BoolVar(&f.wholeFile, "whole", false, "Decode through the single-buffer file entry point")
	fs.BoolVar(&f.frameByFrame, "frame-by-frame", false, "Decode each frame in its own native call")
	fs.BoolVar(&f.window, "window", false, "Map 16-bit images to 8 bits using min/max")
	fs.BoolVar(&f.transcode, "transcode", false, "Also write an uncompressed Explicit VR Little Endian copy")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: dcmdecode [flags] file.dcm [file.dcm ...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// loadConfig reads the configuration file, if any, and applies the flags
// that were set explicitly.
func loadConfig(f *flags, fs *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "format":
			cfg.Output.Format = f.format
		case "out":
			cfg.Output.Dir = f.outDir
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		case "whole":
			cfg.Decode.WholeFile = f.wholeFile
		case "frame-by-frame":
			cfg.Decode.FrameByFrame = f.frameByFrame
		case "window":
			cfg.Output.Window = f.window
		}
	})

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	var out io.Writer = w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func run(args []string, stderr io.Writer) int {
	f, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(f, fs)
	if err != nil {
		fmt.Fprintf(stderr, "dcmdecode: %v\n", err)
		return 2
	}
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "dcmdecode: %v\n", err)
		return 2
	}

	lib, err := gdcm.OpenNative()
	if err != nil {
		logger.Error().Err(err).Msg("cannot load native codec library")
		return 1
	}
	dec := gdcm.NewDecoder(lib, gdcm.WithLogger(logger))
	if f.transcode {
		if err := registerCodecs(dec, logger); err != nil {
			logger.Error().Err(err).Msg("cannot register codecs")
			return 1
		}
	}

	failed := 0
	for _, path := range fs.Args() {
		fileLog := logger.With().Str("file", path).Logger()
		written, err := decodeFile(dec, path, cfg, fileLog)
		if err != nil {
			fileLog.Error().Err(err).Msg("decode failed")
			failed++
			continue
		}
		fileLog.Info().Strs("outputs", written).Msg("decoded")

		if f.transcode {
			out, err := transcodeFile(path, cfg)
			if err != nil {
				fileLog.Error().Err(err).Msg("transcode failed")
				failed++
				continue
			}
			fileLog.Info().Str("output", out).Msg("transcoded")
		}
	}

	if failed > 0 {
		logger.Warn().Int("failed", failed).Int("total", fs.NArg()).Msg("some files failed")
		return 1
	}
	return 0
}
