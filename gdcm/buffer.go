package gdcm

import (
	"runtime"
	"sync"
	"unsafe"
)

// releaser holds the native pointer and frees it at most once. It is kept
// apart from OwnedBuffer so the GC cleanup can reference it without keeping
// the OwnedBuffer itself reachable.
type releaser struct {
	once sync.Once
	ptr  unsafe.Pointer
	free func(unsafe.Pointer)
}

func (r *releaser) release() {
	r.once.Do(func() {
		ptr := r.ptr
		r.ptr = nil
		r.free(ptr)
	})
}

// OwnedBuffer is the sole owner of a buffer allocated by the native library.
// The memory is returned to the library exactly once, by Release or Detach.
// If neither is called the buffer is freed when the OwnedBuffer becomes
// unreachable; callers should not depend on that. The native memory is only
// reachable through View, so no slice of it outlives the OwnedBuffer.
//
// An OwnedBuffer must not be copied. Pass it by pointer.
type OwnedBuffer struct {
	r    *releaser
	size int

	mu       sync.Mutex
	released bool
}

func newOwnedBuffer(ptr unsafe.Pointer, size uintptr, free func(unsafe.Pointer)) (*OwnedBuffer, error) {
	if ptr == nil {
		return nil, invalidPointer()
	}
	b := &OwnedBuffer{
		r:    &releaser{ptr: ptr, free: free},
		size: int(size),
	}
	runtime.AddCleanup(b, func(r *releaser) { r.release() }, b.r)
	return b, nil
}

// View calls fn with a read-only view of the decoded data and returns
// ErrReleased if the buffer was already released. The view aliases native
// memory and is valid only until fn returns: fn must not retain it, and must
// not call Release or Detach. Use Detach for a copy that outlives the buffer.
func (b *OwnedBuffer) View(fn func(data []byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	fn(unsafe.Slice((*byte)(b.r.ptr), b.size))
	// The cleanup must not run while fn reads the memory.
	runtime.KeepAlive(b)
	return nil
}

// Len returns the size of the decoded data in bytes.
func (b *OwnedBuffer) Len() int {
	return b.size
}

// Released reports whether the native memory has been returned.
func (b *OwnedBuffer) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Detach copies the decoded data into Go memory and frees the native buffer
// immediately. It fails with ErrReleased if the buffer was already released.
func (b *OwnedBuffer) Detach() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil, ErrReleased
	}
	out := make([]byte, b.size)
	copy(out, unsafe.Slice((*byte)(b.r.ptr), b.size))
	b.released = true
	b.r.release()
	return out, nil
}

// Release frees the native buffer. Calling it more than once, or after
// Detach, is a no-op.
func (b *OwnedBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	b.r.release()
}
