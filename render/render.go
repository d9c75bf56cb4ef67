// Package render turns decoded grayscale pixel buffers into images and
// writes them as PNG or TIFF.
package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/tiff"
)

// Format is an output file format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
)

var (
	// ErrUnsupportedBitsAllocated is returned for sample widths other than 8 and 16 bits.
	ErrUnsupportedBitsAllocated = errors.New("render: unsupported bits allocated")

	// ErrUnsupportedFormat is returned for unknown output formats.
	ErrUnsupportedFormat = errors.New("render: unsupported format")

	// ErrShortBuffer is returned when the buffer does not hold the requested frame.
	ErrShortBuffer = errors.New("render: buffer too short")
)

// ParseFormat parses a format name, case-insensitively. "tif" is accepted
// for TIFF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw":
		return FormatRaw, nil
	case "png":
		return FormatPNG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatTIFF:
		return ".tiff"
	}
	return ".raw"
}

// Image wraps frame number frame of a decoded buffer. 8-bit data becomes
// *image.Gray, 16-bit little-endian data becomes *image.Gray16.
func Image(data []byte, width, height int, bitsAllocated uint16, frame int) (image.Image, error) {
	if bitsAllocated != 8 && bitsAllocated != 16 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitsAllocated, bitsAllocated)
	}
	if width <= 0 || height <= 0 || frame < 0 {
		return nil, fmt.Errorf("render: invalid geometry %dx%d frame %d", width, height, frame)
	}

	bytesPerSample := int(bitsAllocated / 8)
	frameSize := width * height * bytesPerSample
	start := frame * frameSize
	if len(data) < start+frameSize {
		return nil, fmt.Errorf("%w: have %d bytes, frame %d needs %d", ErrShortBuffer, len(data), frame, start+frameSize)
	}
	src := data[start : start+frameSize]

	rect := image.Rect(0, 0, width, height)
	if bitsAllocated == 8 {
		img := image.NewGray(rect)
		copy(img.Pix, src)
		return img, nil
	}

	// image.Gray16 stores samples big-endian.
	img := image.NewGray16(rect)
	for i := 0; i+1 < len(src); i += 2 {
		binary.BigEndian.PutUint16(img.Pix[i:], binary.LittleEndian.Uint16(src[i:]))
	}
	return img, nil
}

// Window maps a 16-bit image onto 8 bits using its own minimum and maximum.
// signed selects two's complement interpretation of the samples.
func Window(img *image.Gray16, signed bool) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)

	sample := func(i int) int32 {
		u := binary.BigEndian.Uint16(img.Pix[i:])
		if signed {
			return int32(int16(u))
		}
		return int32(u)
	}

	minv, maxv := int32(1<<30), int32(-1<<30)
	for i := 0; i+1 < len(img.Pix); i += 2 {
		v := sample(i)
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
	}
	if maxv == minv {
		maxv = minv + 1
	}

	idx := 0
	for i := 0; i+1 < len(img.Pix); i += 2 {
		l := float64(sample(i)-minv) / float64(maxv-minv)
		out.Pix[idx] = uint8(l*255 + 0.5)
		idx++
	}
	return out
}

// Encode writes img to w in the given format. FormatRaw writes the pixel
// bytes as stored in memory, 16-bit samples little-endian.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatRaw:
		return writeRaw(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
}

func writeRaw(w io.Writer, img image.Image) error {
	switch m := img.(type) {
	case *image.Gray:
		_, err := w.Write(m.Pix)
		return err
	case *image.Gray16:
		buf := make([]byte, len(m.Pix))
		for i := 0; i+1 < len(m.Pix); i += 2 {
			binary.LittleEndian.PutUint16(buf[i:], binary.BigEndian.Uint16(m.Pix[i:]))
		}
		_, err := w.Write(buf)
		return err
	}
	return fmt.Errorf("%w: raw output of %T", ErrUnsupportedFormat, img)
}
