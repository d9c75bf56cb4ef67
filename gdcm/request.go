package gdcm

import "unsafe"

// DecodeRequest describes one decode: the encoded frames of a single image
// and the geometry needed to interpret them. The frames are borrowed; they
// must stay unmodified until Decode returns.
type DecodeRequest struct {
	Frames      [][]byte
	Width       uint32
	Height      uint32
	FrameCount  uint32
	Photometric PhotometricInterpretation
	Syntax      TransferSyntax

	SamplesPerPixel     uint16
	BitsAllocated       uint16
	BitsStored          uint16
	HighBit             uint16
	PixelRepresentation uint16
}

// NewSingleFrameRequest builds a request for one encoded frame with the
// common grayscale defaults: one sample per pixel, unsigned, HighBit =
// BitsStored-1.
func NewSingleFrameRequest(frame []byte, width, height uint32, syntax TransferSyntax, pi PhotometricInterpretation, bitsAllocated, bitsStored uint16) *DecodeRequest {
	var highBit uint16
	if bitsStored > 0 {
		highBit = bitsStored - 1
	}
	return &DecodeRequest{
		Frames:          [][]byte{frame},
		Width:           width,
		Height:          height,
		FrameCount:      1,
		Photometric:     pi,
		Syntax:          syntax,
		SamplesPerPixel: 1,
		BitsAllocated:   bitsAllocated,
		BitsStored:      bitsStored,
		HighBit:         highBit,
	}
}

// FrameSize returns the decoded size in bytes of one frame.
func (r *DecodeRequest) FrameSize() int {
	return int(r.Width) * int(r.Height) * int(r.SamplesPerPixel) * int(r.BitsAllocated/8)
}

// ExpectedSize returns the decoded size in bytes of all frames.
func (r *DecodeRequest) ExpectedSize() int {
	return r.FrameSize() * int(r.FrameCount)
}

// Call is a validated request flattened into the shape of the native
// multi-frame entry point: parallel frame address and length arrays plus
// the [width, height, frames] dimension vector.
type Call struct {
	Frames  []unsafe.Pointer
	Lengths []uintptr
	Dims    [3]uint32

	Photometric PhotometricInterpretation
	Syntax      TransferSyntax

	SamplesPerPixel     uint16
	BitsAllocated       uint16
	BitsStored          uint16
	HighBit             uint16
	PixelRepresentation uint16
}

// Marshal validates req and flattens it into a Call. Every rejection is a
// DecodeError of kind KindInvalidRequest; nothing has been sent to the
// native library when Marshal fails.
func Marshal(req *DecodeRequest) (*Call, error) {
	if req == nil {
		return nil, invalidRequest("nil request")
	}
	if len(req.Frames) == 0 {
		return nil, invalidRequest("no frames")
	}
	if uint64(req.FrameCount) != uint64(len(req.Frames)) {
		return nil, invalidRequest("frame count %d does not match %d frames", req.FrameCount, len(req.Frames))
	}
	if req.Width == 0 || req.Height == 0 {
		return nil, invalidRequest("invalid dimensions %dx%d", req.Width, req.Height)
	}
	// Color decoding is not supported; multi-sample data must not reach the
	// native call where it would be decoded with the wrong layout.
	if req.SamplesPerPixel != 1 {
		return nil, invalidRequest("samples per pixel %d not supported, only 1", req.SamplesPerPixel)
	}
	if req.BitsAllocated != 8 && req.BitsAllocated != 16 {
		return nil, invalidRequest("bits allocated %d not supported", req.BitsAllocated)
	}
	if req.BitsStored == 0 || req.BitsStored > req.BitsAllocated {
		return nil, invalidRequest("bits stored %d invalid for bits allocated %d", req.BitsStored, req.BitsAllocated)
	}
	if req.HighBit >= req.BitsAllocated {
		return nil, invalidRequest("high bit %d invalid for bits allocated %d", req.HighBit, req.BitsAllocated)
	}
	if req.PixelRepresentation > 1 {
		return nil, invalidRequest("pixel representation %d invalid", req.PixelRepresentation)
	}
	if !req.Syntax.IsValid() {
		return nil, invalidRequest("transfer syntax code %d undefined", uint32(req.Syntax))
	}
	if !req.Photometric.IsValid() {
		return nil, invalidRequest("photometric interpretation code %d undefined", uint32(req.Photometric))
	}

	call := &Call{
		Frames:              make([]unsafe.Pointer, len(req.Frames)),
		Lengths:             make([]uintptr, len(req.Frames)),
		Dims:                [3]uint32{req.Width, req.Height, req.FrameCount},
		Photometric:         req.Photometric,
		Syntax:              req.Syntax,
		SamplesPerPixel:     req.SamplesPerPixel,
		BitsAllocated:       req.BitsAllocated,
		BitsStored:          req.BitsStored,
		HighBit:             req.HighBit,
		PixelRepresentation: req.PixelRepresentation,
	}
	for i, frame := range req.Frames {
		if len(frame) == 0 {
			return nil, invalidRequest("frame %d is empty", i)
		}
		call.Frames[i] = unsafe.Pointer(unsafe.SliceData(frame))
		call.Lengths[i] = uintptr(len(frame))
	}
	return call, nil
}

// Frame returns the bytes of frame i as a slice aliasing the caller's memory.
func (c *Call) Frame(i int) []byte {
	return unsafe.Slice((*byte)(c.Frames[i]), int(c.Lengths[i]))
}
