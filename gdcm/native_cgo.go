//go:build cgo && gdcm

package gdcm

/*
// GDCM installs CMake package files, not a pkg-config module. Other install
// prefixes are added through CGO_CXXFLAGS and CGO_LDFLAGS.
#cgo CXXFLAGS: -std=c++11 -I/usr/local/include/gdcm-3.1 -I/usr/include/gdcm-3.0
#cgo LDFLAGS: -lgdcmMSFF -lgdcmDSED -lgdcmDICT -lgdcmIOD -lgdcmCommon -lgdcmjpeg8 -lgdcmjpeg12 -lgdcmjpeg16 -lgdcmopenjp2 -lgdcmcharls -lgdcmexpat -lgdcmzlib -lgdcmuuid -lstdc++
#include <stdlib.h>
#include "gdcm_wrapper.h"
*/
import "C"

import (
	"runtime"
	"unsafe"
)

type nativeLibrary struct{}

// OpenNative returns the Library bound to the linked GDCM wrapper.
func OpenNative() (Library, error) {
	return nativeLibrary{}, nil
}

func (nativeLibrary) DecodeFrames(call *Call) RawResult {
	n := len(call.Frames)

	// Frame memory belongs to Go; pin it while its addresses sit in C memory.
	var pinner runtime.Pinner
	defer pinner.Unpin()

	ptrsMem := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof((*C.char)(nil))))
	if ptrsMem == nil {
		return RawResult{Status: StatusAllocationFailure}
	}
	defer C.free(ptrsMem)
	lensMem := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(C.size_t(0))))
	if lensMem == nil {
		return RawResult{Status: StatusAllocationFailure}
	}
	defer C.free(lensMem)

	ptrs := unsafe.Slice((**C.char)(ptrsMem), n)
	lens := unsafe.Slice((*C.size_t)(lensMem), n)

	for i, p := range call.Frames {
		pinner.Pin((*byte)(p))
		ptrs[i] = (*C.char)(p)
		lens[i] = C.size_t(call.Lengths[i])
	}

	dims := [3]C.uint{C.uint(call.Dims[0]), C.uint(call.Dims[1]), C.uint(call.Dims[2])}

	res := C.gdcm_decode_frames(
		&ptrs[0],
		&lens[0],
		C.size_t(n),
		&dims[0],
		C.uint(call.Photometric),
		C.uint(call.Syntax),
		C.ushort(call.SamplesPerPixel),
		C.ushort(call.BitsAllocated),
		C.ushort(call.BitsStored),
		C.ushort(call.HighBit),
		C.ushort(call.PixelRepresentation),
	)
	return rawResult(res)
}

func (nativeLibrary) DecodeFile(data []byte) RawResult {
	res := C.gdcm_decode_dicom_file((*C.char)(unsafe.Pointer(unsafe.SliceData(data))), C.size_t(len(data)))
	return rawResult(res)
}

func (nativeLibrary) Free(data unsafe.Pointer) {
	C.gdcm_free_buffer((*C.char)(data))
}

func rawResult(res C.gdcm_pixel_data) RawResult {
	return RawResult{
		Data:   unsafe.Pointer(res.buffer),
		Status: uint32(res.status),
		Size:   uintptr(res.size),
	}
}
