package gdcm

import "unsafe"

// RawResult is the descriptor returned by a native decode entry point.
// Data is owned by the library until it is handed to Free.
type RawResult struct {
	Data   unsafe.Pointer
	Status uint32
	Size   uintptr
}

// Library is the native codec capability the Decoder depends on.
//
// DecodeFrames and DecodeFile are synchronous. Every RawResult with status 0
// and a non-nil Data must be passed to Free exactly once. Implementations
// may be called from several goroutines only if the underlying library is
// reentrant; the Decoder adds no locking of its own.
type Library interface {
	// DecodeFrames decodes the frames described by call into one
	// contiguous buffer of uncompressed samples.
	DecodeFrames(call *Call) RawResult

	// DecodeFile decodes the pixel data of a complete DICOM file held in
	// memory. Status 1 is an allocation failure, 2 a stream read failure.
	DecodeFile(data []byte) RawResult

	// Free returns a buffer previously reported in a RawResult.
	Free(data unsafe.Pointer)
}
