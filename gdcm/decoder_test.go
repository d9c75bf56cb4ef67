package gdcm_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cocosip/go-dicom-gdcm/gdcm"
	"github.com/cocosip/go-dicom-gdcm/gdcm/gdcmtest"
)

func TestDecodeSingleFrameScenario(t *testing.T) {
	lib := gdcmtest.New()
	dec := gdcm.NewDecoder(lib)

	frame := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}
	req := &gdcm.DecodeRequest{
		Frames:          [][]byte{frame},
		Width:           1024,
		Height:          768,
		FrameCount:      1,
		Photometric:     gdcm.Monochrome2,
		Syntax:          gdcm.JPEGLosslessProcess14,
		SamplesPerPixel: 1,
		BitsAllocated:   8,
		BitsStored:      8,
		HighBit:         7,
	}

	buf, err := dec.Decode(req)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer buf.Release()

	if buf.Len() != 786432 {
		t.Errorf("decoded size = %d, want 786432", buf.Len())
	}
	_ = buf.View(func(data []byte) {
		if len(data) != 786432 {
			t.Errorf("view length = %d, want 786432", len(data))
		}
	})
	if lib.Calls() != 1 {
		t.Errorf("native calls = %d, want 1", lib.Calls())
	}
}

func TestDecodeSizes(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		frames        int
		bitsAllocated uint16
	}{
		{"8-bit single", 64, 32, 1, 8},
		{"8-bit multi", 64, 32, 5, 8},
		{"16-bit single", 17, 9, 1, 16},
		{"16-bit multi", 512, 512, 3, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := gdcmtest.New()
			dec := gdcm.NewDecoder(lib)

			frames := make([][]byte, tt.frames)
			for i := range frames {
				frames[i] = []byte{byte(i), 1, 2, 3}
			}
			req := &gdcm.DecodeRequest{
				Frames:          frames,
				Width:           tt.width,
				Height:          tt.height,
				FrameCount:      uint32(tt.frames),
				Photometric:     gdcm.Monochrome2,
				Syntax:          gdcm.JPEG2000Lossless,
				SamplesPerPixel: 1,
				BitsAllocated:   tt.bitsAllocated,
				BitsStored:      tt.bitsAllocated,
				HighBit:         tt.bitsAllocated - 1,
			}

			buf, err := dec.Decode(req)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			want := int(tt.width) * int(tt.height) * tt.frames * int(tt.bitsAllocated/8)
			if buf.Len() != want {
				t.Errorf("decoded size = %d, want %d", buf.Len(), want)
			}
			buf.Release()

			if lib.Frees() != 1 || lib.Live() != 0 || lib.DoubleFrees() != 0 {
				t.Errorf("frees=%d live=%d doubleFrees=%d, want 1/0/0", lib.Frees(), lib.Live(), lib.DoubleFrees())
			}
		})
	}
}

func TestDecodeRejectsColorBeforeNativeCall(t *testing.T) {
	lib := gdcmtest.New()
	dec := gdcm.NewDecoder(lib)

	req := validRequest([]byte{1, 2, 3})
	req.SamplesPerPixel = 3
	req.Photometric = gdcm.RGB

	buf, err := dec.Decode(req)
	if buf != nil {
		t.Error("expected nil buffer")
	}
	var derr *gdcm.DecodeError
	if !errors.As(err, &derr) || derr.Kind != gdcm.KindInvalidRequest {
		t.Fatalf("error = %v, want InvalidRequest", err)
	}
	if lib.Calls() != 0 {
		t.Errorf("native calls = %d, want 0", lib.Calls())
	}
	if lib.Allocs() != 0 {
		t.Errorf("native allocations = %d, want 0", lib.Allocs())
	}
}

func TestDecodeNativeFailures(t *testing.T) {
	tests := []struct {
		status   uint32
		wantKind gdcm.ErrorKind
		wantErr  error
	}{
		{1, gdcm.KindAllocationFailure, gdcm.ErrAllocationFailure},
		{2, gdcm.KindStreamReadFailure, gdcm.ErrStreamRead},
		{77, gdcm.KindUnknown, gdcm.ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.wantKind.String(), func(t *testing.T) {
			lib := gdcmtest.New()
			lib.Status = tt.status
			dec := gdcm.NewDecoder(lib)

			buf, err := dec.Decode(validRequest([]byte{1}))
			if buf != nil {
				t.Error("expected nil buffer")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			var derr *gdcm.DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("error %v is not a *DecodeError", err)
			}
			if derr.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", derr.Kind, tt.wantKind)
			}
			if tt.wantKind == gdcm.KindUnknown && derr.Code != 77 {
				t.Errorf("code = %d, want 77", derr.Code)
			}
		})
	}
}

func TestDecodeFailureWithBufferIsFreed(t *testing.T) {
	lib := gdcmtest.New()
	lib.Status = gdcm.StatusAllocationFailure
	lib.BufferOnFailure = true
	dec := gdcm.NewDecoder(lib)

	if _, err := dec.Decode(validRequest([]byte{1})); !errors.Is(err, gdcm.ErrAllocationFailure) {
		t.Fatalf("error = %v, want ErrAllocationFailure", err)
	}
	if lib.Allocs() != 1 || lib.Frees() != 1 || lib.Live() != 0 {
		t.Errorf("allocs=%d frees=%d live=%d, want 1/1/0", lib.Allocs(), lib.Frees(), lib.Live())
	}
}

func TestDecodeNilPointerOnSuccess(t *testing.T) {
	lib := gdcmtest.New()
	lib.NilOnSuccess = true
	dec := gdcm.NewDecoder(lib)

	buf, err := dec.Decode(validRequest([]byte{1}))
	if buf != nil {
		t.Error("expected nil buffer")
	}
	if !errors.Is(err, gdcm.ErrInvalidPointer) {
		t.Errorf("error = %v, want ErrInvalidPointer", err)
	}
	var derr *gdcm.DecodeError
	if !errors.As(err, &derr) || derr.Kind != gdcm.KindInvalidPointer {
		t.Errorf("kind mismatch: %v", err)
	}
}

func TestDecodeReleaseExactlyOnce(t *testing.T) {
	t.Run("release", func(t *testing.T) {
		lib := gdcmtest.New()
		dec := gdcm.NewDecoder(lib)

		buf, err := dec.Decode(validRequest([]byte{1, 2}))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if lib.Live() != 1 {
			t.Errorf("live = %d before release, want 1", lib.Live())
		}
		buf.Release()
		buf.Release()
		if lib.Frees() != 1 || lib.DoubleFrees() != 0 || lib.Live() != 0 {
			t.Errorf("frees=%d doubleFrees=%d live=%d, want 1/0/0", lib.Frees(), lib.DoubleFrees(), lib.Live())
		}
	})

	t.Run("detach", func(t *testing.T) {
		lib := gdcmtest.New()
		dec := gdcm.NewDecoder(lib)

		buf, err := dec.Decode(validRequest([]byte{1, 2}))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		var view []byte
		if err := buf.View(func(data []byte) { view = append(view, data...) }); err != nil {
			t.Fatalf("View failed: %v", err)
		}
		data, err := buf.Detach()
		if err != nil {
			t.Fatalf("Detach failed: %v", err)
		}
		if lib.Frees() != 1 {
			t.Errorf("frees = %d right after Detach, want 1", lib.Frees())
		}
		buf.Release()
		if lib.Frees() != 1 || lib.DoubleFrees() != 0 {
			t.Errorf("frees=%d doubleFrees=%d, want 1/0", lib.Frees(), lib.DoubleFrees())
		}
		if !bytes.Equal(view, data) {
			t.Error("detached data differs from the view")
		}
	})
}

func TestDecodeFileMatchesSingleFramePath(t *testing.T) {
	lib := gdcmtest.New()
	dec := gdcm.NewDecoder(lib)

	frame := []byte{0x10, 0x20, 0x30, 0x40, 0x50}
	req := gdcm.NewSingleFrameRequest(frame, 32, 16, gdcm.RLELossless, gdcm.Monochrome2, 16, 12)
	file := []byte("DICM fake file carrying one RLE frame")
	lib.AddFile(file, req)

	viaFrames, err := dec.Decode(req)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	defer viaFrames.Release()

	viaFile, err := dec.DecodeFile(file)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	defer viaFile.Release()

	var same bool
	_ = viaFrames.View(func(a []byte) {
		_ = viaFile.View(func(b []byte) { same = bytes.Equal(a, b) })
	})
	if !same {
		t.Error("multi-frame path with one frame differs from the file path")
	}
	if viaFile.Len() != 32*16*2 {
		t.Errorf("decoded size = %d, want %d", viaFile.Len(), 32*16*2)
	}
}

func TestDecodeFileErrors(t *testing.T) {
	lib := gdcmtest.New()
	dec := gdcm.NewDecoder(lib)

	if _, err := dec.DecodeFile(nil); !errors.Is(err, gdcm.ErrInvalidRequest) {
		t.Errorf("DecodeFile(nil) error = %v, want ErrInvalidRequest", err)
	}
	if lib.Calls() != 0 {
		t.Errorf("native calls = %d after empty input, want 0", lib.Calls())
	}

	if _, err := dec.DecodeFile([]byte("not a dicom file")); !errors.Is(err, gdcm.ErrStreamRead) {
		t.Errorf("DecodeFile(garbage) error = %v, want ErrStreamRead", err)
	}
}

func TestDecodeFramesSplits(t *testing.T) {
	lib := gdcmtest.New()
	dec := gdcm.NewDecoder(lib)

	req := validRequest([]byte{1, 2}, []byte{3, 4, 5}, []byte{6})
	frames, err := dec.DecodeFrames(req)
	if err != nil {
		t.Fatalf("DecodeFrames failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}

	call, err := gdcm.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	whole := gdcmtest.Expand(call)
	size := req.FrameSize()
	for i, f := range frames {
		if len(f) != size {
			t.Errorf("frame %d: length %d, want %d", i, len(f), size)
		}
		if !bytes.Equal(f, whole[i*size:(i+1)*size]) {
			t.Errorf("frame %d content mismatch", i)
		}
		if cap(f) != size {
			t.Errorf("frame %d: capacity %d leaks into the next frame", i, cap(f))
		}
	}
	if lib.Live() != 0 || lib.Frees() != 1 {
		t.Errorf("live=%d frees=%d, want 0/1", lib.Live(), lib.Frees())
	}
}

func TestOpenNativeWithoutTag(t *testing.T) {
	lib, err := gdcm.OpenNative()
	if err != nil {
		if !errors.Is(err, gdcm.ErrNativeUnavailable) {
			t.Errorf("error = %v, want ErrNativeUnavailable", err)
		}
		if lib != nil {
			t.Error("expected nil library with error")
		}
		t.Skip("native library not linked in this build")
	}
	if lib == nil {
		t.Error("OpenNative returned nil library without error")
	}
}

func TestDecodeEach(t *testing.T) {
	lib := gdcmtest.New()
	dec := gdcm.NewDecoder(lib)

	req := validRequest([]byte{1, 2}, []byte{3}, []byte{4, 5, 6})
	frames, err := dec.DecodeEach(req)
	if err != nil {
		t.Fatalf("DecodeEach failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	if lib.Calls() != 3 {
		t.Errorf("native calls = %d, want 3", lib.Calls())
	}
	if call := lib.LastCall(); call.Dims[2] != 1 {
		t.Errorf("last call frame count = %d, want 1", call.Dims[2])
	}
	for i, f := range frames {
		if len(f) != req.FrameSize() {
			t.Errorf("frame %d: length %d, want %d", i, len(f), req.FrameSize())
		}
	}
	if lib.Live() != 0 || lib.Frees() != 3 {
		t.Errorf("live=%d frees=%d, want 0/3", lib.Live(), lib.Frees())
	}

	lib.Status = gdcm.StatusStreamReadFailure
	if _, err := dec.DecodeEach(req); !errors.Is(err, gdcm.ErrStreamRead) {
		t.Errorf("error = %v, want ErrStreamRead", err)
	}
	if _, err := dec.DecodeEach(nil); !errors.Is(err, gdcm.ErrInvalidRequest) {
		t.Errorf("DecodeEach(nil) error = %v, want ErrInvalidRequest", err)
	}
}

func TestDecodeFramesWrongSize(t *testing.T) {
	lib := gdcmtest.New()
	lib.ShortBy = 3
	dec := gdcm.NewDecoder(lib)

	frames, err := dec.DecodeFrames(validRequest([]byte{1, 2}, []byte{3}))
	if frames != nil {
		t.Error("expected no frames")
	}
	var derr *gdcm.DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
	if derr.Kind != gdcm.KindInvalidPointer || derr.Reason == "" {
		t.Errorf("kind=%v reason=%q, want InvalidPointer with a reason", derr.Kind, derr.Reason)
	}
	if !errors.Is(err, gdcm.ErrInvalidPointer) {
		t.Errorf("error = %v, want ErrInvalidPointer", err)
	}
	t.Logf("short buffer: %v", err)
	if lib.Live() != 0 || lib.Frees() != 1 {
		t.Errorf("live=%d frees=%d, want 0/1", lib.Live(), lib.Frees())
	}
}
