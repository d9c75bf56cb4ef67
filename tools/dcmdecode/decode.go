package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/cocosip/go-dicom-gdcm/config"
	"github.com/cocosip/go-dicom-gdcm/dicomfile"
	"github.com/cocosip/go-dicom-gdcm/gdcm"
	"github.com/cocosip/go-dicom-gdcm/render"
	"github.com/rs/zerolog"
)

// decodeFile decodes one DICOM file and writes its frames. It returns the
// paths written.
func decodeFile(dec *gdcm.Decoder, path string, cfg *config.Config, logger zerolog.Logger) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > cfg.Decode.MaxFileSize {
		return nil, fmt.Errorf("file is %d bytes, limit is %d", info.Size(), cfg.Decode.MaxFileSize)
	}

	img, err := dicomfile.Open(path, dicomfile.WithLargeObjectSize(cfg.Decode.MaxFileSize))
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("transfer_syntax", img.TransferSyntaxUID).
		Uint16("rows", img.Rows).
		Uint16("columns", img.Columns).
		Int("frames", img.FrameCount()).
		Msg("parsed")

	var frames [][]byte
	if cfg.Decode.WholeFile {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		frames, err = decodeWhole(dec, data, img)
		if err != nil {
			return nil, err
		}
	} else {
		frames, err = decodeImage(dec, img, cfg.Decode.FrameByFrame)
		if err != nil {
			return nil, err
		}
	}

	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return writeFrames(frames, img, format, cfg.Output, path)
}

// decodeImage decodes the frames of img through the multi-frame entry point,
// either in one native call or one call per frame.
func decodeImage(dec *gdcm.Decoder, img *dicomfile.Image, frameByFrame bool) ([][]byte, error) {
	req, err := img.Request()
	if err != nil {
		return nil, err
	}
	if frameByFrame {
		return dec.DecodeEach(req)
	}
	return dec.DecodeFrames(req)
}

// decodeWhole decodes a complete file buffer and splits the result into
// frames using the geometry of img.
func decodeWhole(dec *gdcm.Decoder, data []byte, img *dicomfile.Image) ([][]byte, error) {
	buf, err := dec.DecodeFile(data)
	if err != nil {
		return nil, err
	}
	decoded, err := buf.Detach()
	if err != nil {
		return nil, err
	}

	frameSize := int(img.Columns) * int(img.Rows) * int(img.SamplesPerPixel) * int(img.BitsAllocated/8)
	if frameSize == 0 || len(decoded)%frameSize != 0 {
		return nil, fmt.Errorf("decoded %d bytes, not a multiple of frame size %d", len(decoded), frameSize)
	}
	frames := make([][]byte, len(decoded)/frameSize)
	for i := range frames {
		frames[i] = decoded[i*frameSize : (i+1)*frameSize : (i+1)*frameSize]
	}
	return frames, nil
}

// outputPath returns the path for frame index of count frames decoded from
// input.
func outputPath(input, dir string, format render.Format, index, count int) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := base + "_decoded"
	if count > 1 {
		name = fmt.Sprintf("%s_f%03d", name, index)
	}
	return filepath.Join(dir, name+format.Ext())
}

func writeFrames(frames [][]byte, img *dicomfile.Image, format render.Format, out config.OutputConfig, input string) ([]string, error) {
	if out.Dir != "" {
		if err := os.MkdirAll(out.Dir, 0o755); err != nil {
			return nil, err
		}
	}

	written := make([]string, 0, len(frames))
	for i, frame := range frames {
		path := outputPath(input, out.Dir, format, i, len(frames))
		if err := writeFrame(path, frame, img, format, out.Window); err != nil {
			return written, fmt.Errorf("frame %d: %w", i, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFrame(path string, frame []byte, img *dicomfile.Image, format render.Format, window bool) (err error) {
	if format == render.FormatRaw {
		return os.WriteFile(path, frame, 0o644)
	}

	m, err := render.Image(frame, int(img.Columns), int(img.Rows), img.BitsAllocated, 0)
	if err != nil {
		return err
	}
	if g16, ok := m.(*image.Gray16); ok && window {
		m = render.Window(g16, img.PixelRepresentation != 0)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return render.Encode(f, m, format)
}
