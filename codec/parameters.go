package codec

import (
	dcodec "github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Ensure Parameters implements codec.Parameters
var _ dcodec.Parameters = (*Parameters)(nil)

const paramFrameByFrame = "frameByFrame"

// Parameters contains decode options for the GDCM codecs
type Parameters struct {
	// FrameByFrame decodes each frame in its own native call instead of
	// all frames in one. Peak native memory drops to a single frame.
	FrameByFrame bool

	params map[string]interface{}
}

// NewParameters creates Parameters with default values
func NewParameters() *Parameters {
	return &Parameters{
		params: make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case paramFrameByFrame:
		return p.FrameByFrame
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *Parameters) SetParameter(name string, value interface{}) {
	switch name {
	case paramFrameByFrame:
		if v, ok := value.(bool); ok {
			p.FrameByFrame = v
		}
	default:
		p.params[name] = value
	}
}

// Validate checks if the parameters are valid
func (p *Parameters) Validate() error {
	return nil
}

// WithFrameByFrame sets FrameByFrame and returns the parameters for chaining
func (p *Parameters) WithFrameByFrame(v bool) *Parameters {
	p.FrameByFrame = v
	return p
}

func extractParameters(parameters dcodec.Parameters) *Parameters {
	if parameters == nil {
		return NewParameters()
	}
	if p, ok := parameters.(*Parameters); ok {
		return p
	}
	p := NewParameters()
	if v := parameters.GetParameter(paramFrameByFrame); v != nil {
		if b, ok := v.(bool); ok {
			p.FrameByFrame = b
		}
	}
	return p
}
