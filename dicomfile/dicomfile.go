// Package dicomfile reads DICOM files with go-dicom and prepares their
// encapsulated pixel data for the GDCM decoder.
package dicomfile

import (
	"errors"
	"fmt"

	"github.com/cocosip/go-dicom-gdcm/gdcm"
	"github.com/cocosip/go-dicom/pkg/dicom/dataset"
	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging"
)

// DefaultLargeObjectSize bounds the size of a single element when no
// WithLargeObjectSize option is given.
const DefaultLargeObjectSize = 512 * 1024 * 1024

var (
	// ErrNoPixelData is returned when the dataset has no Pixel Data element.
	ErrNoPixelData = errors.New("dicomfile: no pixel data")

	// ErrNotEncapsulated is returned by Request when the pixel data is stored
	// uncompressed and needs no native decode.
	ErrNotEncapsulated = errors.New("dicomfile: pixel data is not encapsulated")
)

// Image is the pixel module of one DICOM file: geometry, codes and the
// encoded frames.
type Image struct {
	Rows                uint16
	Columns             uint16
	SamplesPerPixel     uint16
	BitsAllocated       uint16
	BitsStored          uint16
	HighBit             uint16
	PixelRepresentation uint16

	// Photometric is the raw Photometric Interpretation term.
	Photometric string
	// TransferSyntaxUID is the transfer syntax of the file.
	TransferSyntaxUID string
	Encapsulated      bool

	Frames [][]byte
}

type options struct {
	largeObjectSize int64
}

// Option configures Read and Open.
type Option func(*options)

// WithLargeObjectSize sets the largest element the parser will load.
// Values that are not positive keep DefaultLargeObjectSize.
func WithLargeObjectSize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.largeObjectSize = n
		}
	}
}

// Read parses the file at path, including pixel data.
func Read(path string, opts ...Option) (*dataset.Dataset, *transfer.Syntax, error) {
	o := options{largeObjectSize: DefaultLargeObjectSize}
	for _, opt := range opts {
		opt(&o)
	}

	res, err := parser.ParseFile(path,
		parser.WithReadOption(parser.ReadAll),
		largeObjectSize(parser.WithLargeObjectSize, o.largeObjectSize),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if res.TransferSyntax == nil {
		return nil, nil, fmt.Errorf("parse %s: missing transfer syntax", path)
	}
	return res.Dataset, res.TransferSyntax, nil
}

// largeObjectSize converts n to whatever integer type the parser option
// takes.
func largeObjectSize[T ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64, O any](with func(T) O, n int64) O {
	return with(T(n))
}

// Open parses the file at path and extracts its pixel module.
func Open(path string, opts ...Option) (*Image, error) {
	ds, ts, err := Read(path, opts...)
	if err != nil {
		return nil, err
	}
	img, err := FromDataset(ds, ts.UID().UID(), ts.IsEncapsulated())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// FromDataset extracts the pixel module of ds, encoded with the transfer
// syntax tsUID.
func FromDataset(ds *dataset.Dataset, tsUID string, encapsulated bool) (*Image, error) {
	if _, ok := ds.Get(tag.PixelData); !ok {
		return nil, ErrNoPixelData
	}

	img := &Image{
		Rows:                ds.TryGetUInt16(tag.Rows, 0),
		Columns:             ds.TryGetUInt16(tag.Columns, 0),
		SamplesPerPixel:     ds.TryGetUInt16(tag.SamplesPerPixel, 1),
		BitsAllocated:       ds.TryGetUInt16(tag.BitsAllocated, 0),
		BitsStored:          ds.TryGetUInt16(tag.BitsStored, 0),
		HighBit:             ds.TryGetUInt16(tag.HighBit, 0),
		PixelRepresentation: ds.TryGetUInt16(tag.PixelRepresentation, 0),
		TransferSyntaxUID:   tsUID,
		Encapsulated:        encapsulated,
	}
	if pi, ok := ds.GetString(tag.PhotometricInterpretation); ok {
		img.Photometric = pi
	}

	pd, err := imaging.CreatePixelData(ds)
	if err != nil {
		return nil, fmt.Errorf("read pixel data: %w", err)
	}
	frameCount := pd.FrameCount()
	img.Frames = make([][]byte, frameCount)
	for i := 0; i < frameCount; i++ {
		frame, err := pd.GetFrame(i)
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", i, err)
		}
		img.Frames[i] = frame
	}
	return img, nil
}

// FrameCount returns the number of frames.
func (img *Image) FrameCount() int {
	return len(img.Frames)
}

// Request builds the decode request for all frames of img. Identifier
// lookups fail with gdcm.ErrInvalidIdentifier; geometry is validated later
// by the decoder.
func (img *Image) Request() (*gdcm.DecodeRequest, error) {
	if !img.Encapsulated {
		return nil, ErrNotEncapsulated
	}
	syntax, err := gdcm.ParseTransferSyntax(img.TransferSyntaxUID)
	if err != nil {
		return nil, err
	}
	pi, err := gdcm.ParsePhotometricInterpretation(img.Photometric)
	if err != nil {
		return nil, err
	}
	return &gdcm.DecodeRequest{
		Frames:              img.Frames,
		Width:               uint32(img.Columns),
		Height:              uint32(img.Rows),
		FrameCount:          uint32(len(img.Frames)),
		Photometric:         pi,
		Syntax:              syntax,
		SamplesPerPixel:     img.SamplesPerPixel,
		BitsAllocated:       img.BitsAllocated,
		BitsStored:          img.BitsStored,
		HighBit:             img.HighBit,
		PixelRepresentation: img.PixelRepresentation,
	}, nil
}
