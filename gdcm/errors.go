package gdcm

import (
	"errors"
	"fmt"
)

// Status codes reported by the native decode entry points.
const (
	StatusSuccess           uint32 = 0
	StatusAllocationFailure uint32 = 1
	StatusStreamReadFailure uint32 = 2
)

var (
	// ErrAllocationFailure is returned when the native library could not
	// allocate or fill the output buffer.
	ErrAllocationFailure = errors.New("native allocation failure")

	// ErrStreamRead is returned when the native library could not read the
	// encoded stream.
	ErrStreamRead = errors.New("native stream read failure")

	// ErrUnknownStatus is returned for status codes with no defined meaning.
	ErrUnknownStatus = errors.New("unknown native status")

	// ErrInvalidPointer is returned when the native library reports success
	// without a usable buffer.
	ErrInvalidPointer = errors.New("native library returned no usable buffer")

	// ErrInvalidIdentifier is returned for UIDs and defined terms with no code.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidRequest is returned when a request is rejected before any
	// native call is made.
	ErrInvalidRequest = errors.New("invalid decode request")

	// ErrReleased is returned when a buffer is used after its memory was freed.
	ErrReleased = errors.New("buffer already released")

	// ErrNativeUnavailable is returned by the stub library used when the
	// package is built without cgo or without the gdcm build tag.
	ErrNativeUnavailable = errors.New("gdcm native library not available (build with cgo and -tags gdcm)")
)

// ErrorKind identifies a member of the decode error taxonomy.
type ErrorKind int

const (
	KindAllocationFailure ErrorKind = iota
	KindStreamReadFailure
	KindUnknown
	KindInvalidPointer
	KindInvalidIdentifier
	KindInvalidRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindAllocationFailure:
		return "AllocationFailure"
	case KindStreamReadFailure:
		return "StreamReadFailure"
	case KindUnknown:
		return "Unknown"
	case KindInvalidPointer:
		return "InvalidPointer"
	case KindInvalidIdentifier:
		return "InvalidIdentifier"
	case KindInvalidRequest:
		return "InvalidRequest"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// DecodeError is the error type returned by every decode path.
// Only the field matching Kind is meaningful: Code for KindUnknown,
// Identifier for KindInvalidIdentifier, Reason for KindInvalidRequest and,
// when the native buffer has the wrong size, KindInvalidPointer.
type DecodeError struct {
	Kind       ErrorKind
	Code       uint32
	Identifier string
	Reason     string
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindUnknown:
		return fmt.Sprintf("%v: %d", ErrUnknownStatus, e.Code)
	case KindInvalidIdentifier:
		return fmt.Sprintf("%v: %q", ErrInvalidIdentifier, e.Identifier)
	case KindInvalidRequest:
		return fmt.Sprintf("%v: %s", ErrInvalidRequest, e.Reason)
	case KindInvalidPointer:
		if e.Reason != "" {
			return fmt.Sprintf("%v: %s", ErrInvalidPointer, e.Reason)
		}
		return ErrInvalidPointer.Error()
	default:
		return e.Unwrap().Error()
	}
}

// Unwrap returns the sentinel for e.Kind so callers can use errors.Is.
func (e *DecodeError) Unwrap() error {
	switch e.Kind {
	case KindAllocationFailure:
		return ErrAllocationFailure
	case KindStreamReadFailure:
		return ErrStreamRead
	case KindInvalidPointer:
		return ErrInvalidPointer
	case KindInvalidIdentifier:
		return ErrInvalidIdentifier
	case KindInvalidRequest:
		return ErrInvalidRequest
	default:
		return ErrUnknownStatus
	}
}

// Classify maps a non-zero native status to a DecodeError.
// Status 0 is success and is handled by the caller; passing it here yields
// KindUnknown so the mapping stays total.
func Classify(status uint32) *DecodeError {
	switch status {
	case StatusAllocationFailure:
		return &DecodeError{Kind: KindAllocationFailure}
	case StatusStreamReadFailure:
		return &DecodeError{Kind: KindStreamReadFailure}
	default:
		return &DecodeError{Kind: KindUnknown, Code: status}
	}
}

func invalidIdentifier(s string) *DecodeError {
	return &DecodeError{Kind: KindInvalidIdentifier, Identifier: s}
}

func invalidRequest(format string, args ...any) *DecodeError {
	return &DecodeError{Kind: KindInvalidRequest, Reason: fmt.Sprintf(format, args...)}
}

func invalidPointer() *DecodeError {
	return &DecodeError{Kind: KindInvalidPointer}
}
