package main

import (
	"fmt"
	"path/filepath"
	"strings"

	gdcmcodec "github.com/cocosip/go-dicom-gdcm/codec"
	"github.com/cocosip/go-dicom-gdcm/config"
	"github.com/cocosip/go-dicom-gdcm/dicomfile"
	"github.com/cocosip/go-dicom-gdcm/gdcm"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/dicom/writer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/rs/zerolog"
)

// registerCodecs installs the GDCM codecs in go-dicom's global registry.
// logger is shared by every file the codecs decode, so it must not carry
// per-file fields.
func registerCodecs(dec *gdcm.Decoder, logger zerolog.Logger) error {
	return gdcmcodec.RegisterAll(dec, gdcmcodec.WithLogger(logger.With().Str("component", "codec").Logger()))
}

// transcodeFile rewrites path as Explicit VR Little Endian, decoding the
// pixel data with the codecs installed by registerCodecs.
func transcodeFile(path string, cfg *config.Config) (string, error) {
	ds, sourceTS, err := dicomfile.Read(path, dicomfile.WithLargeObjectSize(cfg.Decode.MaxFileSize))
	if err != nil {
		return "", err
	}
	targetTS := transfer.ExplicitVRLittleEndian
	if !sourceTS.IsEncapsulated() {
		return "", fmt.Errorf("pixel data is not encapsulated")
	}

	transcoder := codec.NewTranscoder(sourceTS, targetTS, codec.WithCodecRegistry(codec.GetGlobalRegistry()))
	newDS, err := transcoder.Transcode(ds)
	if err != nil {
		return "", fmt.Errorf("transcode failed: %w", err)
	}

	out := transcodedPath(path, cfg.Output.Dir)
	if err := writer.WriteFile(out, newDS, writer.WithTransferSyntax(targetTS)); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return out, nil
}

func transcodedPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+"_explicit_le.dcm")
}
