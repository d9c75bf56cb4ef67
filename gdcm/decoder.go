package gdcm

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Decoder turns decode requests into native calls and native results into
// OwnedBuffers or DecodeErrors. It keeps no state between calls, so one
// Decoder may be shared as long as the Library it wraps is reentrant.
type Decoder struct {
	lib    Library
	logger zerolog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for per-call debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// NewDecoder returns a Decoder backed by lib.
func NewDecoder(lib Library, opts ...Option) *Decoder {
	d := &Decoder{
		lib:    lib,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes every frame of req in one native call. Single-frame images
// use the same path with FrameCount 1.
//
// On success the caller owns the returned buffer and must call Release or
// Detach on it. Request errors are returned before the native library is
// touched.
func (d *Decoder) Decode(req *DecodeRequest) (*OwnedBuffer, error) {
	call, err := Marshal(req)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	d.logger.Debug().
		Str("decode_id", id).
		Stringer("syntax", call.Syntax).
		Stringer("photometric", call.Photometric).
		Uint32("width", call.Dims[0]).
		Uint32("height", call.Dims[1]).
		Uint32("frames", call.Dims[2]).
		Uint16("bits_allocated", call.BitsAllocated).
		Msg("gdcm: decoding frames")

	res := d.lib.DecodeFrames(call)
	return d.accept(id, res)
}

// DecodeFile decodes the pixel data of a complete DICOM file held in
// memory. It bypasses request validation: geometry and codes come from the
// file itself.
func (d *Decoder) DecodeFile(data []byte) (*OwnedBuffer, error) {
	if len(data) == 0 {
		return nil, invalidRequest("empty file buffer")
	}

	id := uuid.New().String()
	d.logger.Debug().
		Str("decode_id", id).
		Int("file_size", len(data)).
		Msg("gdcm: decoding file")

	res := d.lib.DecodeFile(data)
	return d.accept(id, res)
}

// DecodeFrames decodes req and splits the result into one caller-owned
// slice per frame. The native buffer is freed before DecodeFrames returns.
func (d *Decoder) DecodeFrames(req *DecodeRequest) ([][]byte, error) {
	buf, err := d.Decode(req)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	frameSize := req.FrameSize()
	if buf.Len() != frameSize*int(req.FrameCount) {
		return nil, &DecodeError{
			Kind:   KindInvalidPointer,
			Reason: fmt.Sprintf("got %d bytes, want %d frames of %d bytes", buf.Len(), req.FrameCount, frameSize),
		}
	}

	data, err := buf.Detach()
	if err != nil {
		return nil, err
	}
	frames := make([][]byte, req.FrameCount)
	for i := range frames {
		frames[i] = data[i*frameSize : (i+1)*frameSize : (i+1)*frameSize]
	}
	return frames, nil
}

// DecodeEach is DecodeFrames with one native call per frame, so at most one
// decoded frame is held in native memory at a time.
func (d *Decoder) DecodeEach(req *DecodeRequest) ([][]byte, error) {
	if req == nil {
		return nil, invalidRequest("nil request")
	}
	out := make([][]byte, 0, len(req.Frames))
	for i, frame := range req.Frames {
		single := *req
		single.Frames = [][]byte{frame}
		single.FrameCount = 1
		decoded, err := d.DecodeFrames(&single)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		out = append(out, decoded[0])
	}
	return out, nil
}

// accept translates a native result. A non-nil pointer that comes with a
// failure status is still returned to the library.
func (d *Decoder) accept(id string, res RawResult) (*OwnedBuffer, error) {
	if res.Status != StatusSuccess {
		if res.Data != nil {
			d.lib.Free(res.Data)
		}
		derr := Classify(res.Status)
		d.logger.Debug().
			Str("decode_id", id).
			Uint32("status", res.Status).
			Stringer("kind", derr.Kind).
			Msg("gdcm: native decode failed")
		return nil, derr
	}

	buf, err := newOwnedBuffer(res.Data, res.Size, d.lib.Free)
	if err != nil {
		d.logger.Debug().
			Str("decode_id", id).
			Msg("gdcm: native decode reported success without a buffer")
		return nil, err
	}

	d.logger.Debug().
		Str("decode_id", id).
		Int("size", buf.Len()).
		Msg("gdcm: native decode succeeded")
	return buf, nil
}
