package codec

import "errors"

var (
	// ErrCodecNotFound is returned when a codec is not found in the registry
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidParameter is returned when codec construction or decode parameters are invalid
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedFormat is returned when the transfer syntax cannot be decoded by GDCM
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEncodeNotSupported is returned by Encode; GDCM codecs only decode
	ErrEncodeNotSupported = errors.New("encoding not supported")
)
