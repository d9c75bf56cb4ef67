// Package gdcmtest provides an in-memory gdcm.Library for tests.
//
// The fake does not decompress anything. It expands each encoded frame into
// a deterministic buffer of the size the real library would produce, and it
// records every allocation and free so tests can check the exactly-once
// release contract.
package gdcmtest

import (
	"sync"
	"unsafe"

	"github.com/cocosip/go-dicom-gdcm/gdcm"
)

var _ gdcm.Library = (*Library)(nil)

// Library is a fake native library. Configure the exported fields before
// the first call; the counters are safe for concurrent use.
type Library struct {
	// Status, when non-zero, is returned by every decode call instead of
	// decoding.
	Status uint32

	// NilOnSuccess makes successful decodes report status 0 with a nil buffer.
	NilOnSuccess bool

	// BufferOnFailure makes failing decodes also return an allocated buffer.
	BufferOnFailure bool

	// ShortBy drops that many bytes from the end of every successful buffer.
	ShortBy int

	mu          sync.Mutex
	files       map[string]*gdcm.DecodeRequest
	live        map[unsafe.Pointer][]byte
	calls       int
	allocs      int
	frees       int
	doubleFrees int
	lastCall    *gdcm.Call
}

// New returns an empty fake library.
func New() *Library {
	return &Library{
		files: make(map[string]*gdcm.DecodeRequest),
		live:  make(map[unsafe.Pointer][]byte),
	}
}

// AddFile registers the content of a DICOM file. DecodeFile on exactly these
// bytes decodes req as DecodeFrames would; any other bytes fail with a
// stream read status.
func (l *Library) AddFile(data []byte, req *gdcm.DecodeRequest) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files[string(data)] = req
}

// DecodeFrames implements gdcm.Library.
func (l *Library) DecodeFrames(call *gdcm.Call) gdcm.RawResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	l.lastCall = call
	return l.decodeLocked(call)
}

// DecodeFile implements gdcm.Library.
func (l *Library) DecodeFile(data []byte) gdcm.RawResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++

	req, ok := l.files[string(data)]
	if !ok {
		return gdcm.RawResult{Status: gdcm.StatusStreamReadFailure}
	}
	call, err := gdcm.Marshal(req)
	if err != nil {
		return gdcm.RawResult{Status: gdcm.StatusStreamReadFailure}
	}
	return l.decodeLocked(call)
}

// Free implements gdcm.Library. Freeing an unknown or already freed
// pointer is counted as a double free.
func (l *Library) Free(data unsafe.Pointer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.live[data]; !ok {
		l.doubleFrees++
		return
	}
	delete(l.live, data)
	l.frees++
}

func (l *Library) decodeLocked(call *gdcm.Call) gdcm.RawResult {
	if l.Status != gdcm.StatusSuccess {
		res := gdcm.RawResult{Status: l.Status}
		if l.BufferOnFailure {
			res.Data = l.allocLocked(make([]byte, 1))
			res.Size = 1
		}
		return res
	}

	out := Expand(call)
	if l.ShortBy > 0 {
		out = out[:max(len(out)-l.ShortBy, 0)]
	}
	if l.NilOnSuccess {
		return gdcm.RawResult{Status: gdcm.StatusSuccess, Size: uintptr(len(out))}
	}
	return gdcm.RawResult{
		Data:   l.allocLocked(out),
		Status: gdcm.StatusSuccess,
		Size:   uintptr(len(out)),
	}
}

func (l *Library) allocLocked(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		buf = make([]byte, 1)[:0]
	}
	p := unsafe.Pointer(unsafe.SliceData(buf))
	l.live[p] = buf
	l.allocs++
	return p
}

// Expand produces the fake decoded image for call: every output frame is the
// corresponding encoded frame repeated to the decoded frame size, with the
// frame index mixed in so frames stay distinguishable.
func Expand(call *gdcm.Call) []byte {
	frameSize := int(call.Dims[0]) * int(call.Dims[1]) * int(call.SamplesPerPixel) * int(call.BitsAllocated/8)
	out := make([]byte, frameSize*len(call.Frames))
	for f := range call.Frames {
		src := call.Frame(f)
		dst := out[f*frameSize : (f+1)*frameSize]
		for i := range dst {
			dst[i] = src[i%len(src)] ^ byte(f*31)
		}
	}
	return out
}

// Calls returns the number of decode calls made.
func (l *Library) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// Allocs returns the number of buffers handed out.
func (l *Library) Allocs() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allocs
}

// Frees returns the number of successful frees.
func (l *Library) Frees() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frees
}

// DoubleFrees returns the number of frees of unknown or already freed pointers.
func (l *Library) DoubleFrees() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doubleFrees
}

// Live returns the number of buffers handed out and not yet freed.
func (l *Library) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// LastCall returns the most recent call passed to DecodeFrames.
func (l *Library) LastCall() *gdcm.Call {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastCall
}
