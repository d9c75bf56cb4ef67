// Package codec plugs the GDCM decode bridge into go-dicom's codec registry.
//
// Each Codec handles one encapsulated transfer syntax. Decoding goes through
// a shared gdcm.Decoder; encoding is not supported.
package codec

import (
	"fmt"

	"github.com/cocosip/go-dicom-gdcm/gdcm"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	dcodec "github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"
	"github.com/rs/zerolog"
)

var _ dcodec.Codec = (*Codec)(nil)

// Codec implements the go-dicom codec.Codec interface for one transfer
// syntax, decoding through GDCM.
type Codec struct {
	name           string
	transferSyntax *transfer.Syntax
	syntax         gdcm.TransferSyntax
	dec            *gdcm.Decoder
	logger         zerolog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for per-decode events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// NewCodec creates a codec for ts backed by dec. ts must be an encapsulated
// transfer syntax the native library knows.
func NewCodec(name string, ts *transfer.Syntax, dec *gdcm.Decoder, opts ...Option) (*Codec, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: nil transfer syntax", ErrInvalidParameter)
	}
	if dec == nil {
		return nil, fmt.Errorf("%w: nil decoder", ErrInvalidParameter)
	}
	syntax, err := gdcm.ParseTransferSyntax(ts.UID().UID())
	if err != nil {
		return nil, fmt.Errorf("codec %s: %w", name, err)
	}
	if !syntax.IsEncapsulated() {
		return nil, fmt.Errorf("%w: %s is not encapsulated", ErrUnsupportedFormat, syntax)
	}
	c := &Codec{
		name:           name,
		transferSyntax: ts,
		syntax:         syntax,
		dec:            dec,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the codec name
func (c *Codec) Name() string {
	return c.name
}

// TransferSyntax returns the transfer syntax this codec handles
func (c *Codec) TransferSyntax() *transfer.Syntax {
	return c.transferSyntax
}

// UID returns the transfer syntax UID
func (c *Codec) UID() string {
	return c.transferSyntax.UID().UID()
}

// Syntax returns the native transfer syntax code
func (c *Codec) Syntax() gdcm.TransferSyntax {
	return c.syntax
}

// GetDefaultParameters returns the default codec parameters
func (c *Codec) GetDefaultParameters() dcodec.Parameters {
	return NewParameters()
}

// Encode is not supported; GDCM is only used for decompression here.
func (c *Codec) Encode(_ imagetypes.PixelData, _ imagetypes.PixelData, _ dcodec.Parameters) error {
	return fmt.Errorf("%s: %w", c.name, ErrEncodeNotSupported)
}

// Decode decodes every frame of oldPixelData and appends the uncompressed
// frames to newPixelData.
func (c *Codec) Decode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters dcodec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}
	req, err := c.buildRequest(oldPixelData)
	if err != nil {
		return err
	}

	params := extractParameters(parameters)
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid GDCM parameters: %w", err)
	}

	c.logger.Debug().
		Str("codec", c.name).
		Stringer("syntax", c.syntax).
		Uint32("frames", req.FrameCount).
		Bool("frame_by_frame", params.FrameByFrame).
		Msg("decoding pixel data")

	var decoded [][]byte
	if params.FrameByFrame {
		decoded, err = c.dec.DecodeEach(req)
	} else {
		decoded, err = c.dec.DecodeFrames(req)
	}
	if err != nil {
		return fmt.Errorf("%s decode failed: %w", c.name, err)
	}

	for i, frame := range decoded {
		if err := newPixelData.AddFrame(frame); err != nil {
			return fmt.Errorf("failed to add decoded frame %d: %w", i, err)
		}
	}
	return nil
}

func (c *Codec) buildRequest(src imagetypes.PixelData) (*gdcm.DecodeRequest, error) {
	info := src.GetFrameInfo()
	if info == nil {
		return nil, fmt.Errorf("failed to get frame info from source pixel data")
	}
	frameCount := src.FrameCount()
	if frameCount == 0 {
		return nil, fmt.Errorf("source pixel data is empty (no frames)")
	}

	pi, err := gdcm.ParsePhotometricInterpretation(info.PhotometricInterpretation)
	if err != nil {
		return nil, fmt.Errorf("photometric interpretation: %w", err)
	}

	frames := make([][]byte, frameCount)
	for i := range frames {
		frame, err := src.GetFrame(i)
		if err != nil {
			return nil, fmt.Errorf("failed to get frame %d: %w", i, err)
		}
		if len(frame) == 0 {
			return nil, fmt.Errorf("frame %d pixel data is empty", i)
		}
		frames[i] = frame
	}

	return &gdcm.DecodeRequest{
		Frames:              frames,
		Width:               uint32(info.Width),
		Height:              uint32(info.Height),
		FrameCount:          uint32(frameCount),
		Photometric:         pi,
		Syntax:              c.syntax,
		SamplesPerPixel:     uint16(info.SamplesPerPixel),
		BitsAllocated:       uint16(info.BitsAllocated),
		BitsStored:          uint16(info.BitsStored),
		HighBit:             uint16(info.HighBit),
		PixelRepresentation: uint16(info.PixelRepresentation),
	}, nil
}
