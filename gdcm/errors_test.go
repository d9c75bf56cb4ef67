package gdcm_test

import (
	"errors"
	"testing"

	"github.com/cocosip/go-dicom-gdcm/gdcm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status   uint32
		wantKind gdcm.ErrorKind
		wantErr  error
	}{
		{1, gdcm.KindAllocationFailure, gdcm.ErrAllocationFailure},
		{2, gdcm.KindStreamReadFailure, gdcm.ErrStreamRead},
		{3, gdcm.KindUnknown, gdcm.ErrUnknownStatus},
		{77, gdcm.KindUnknown, gdcm.ErrUnknownStatus},
		{0xFFFFFFFF, gdcm.KindUnknown, gdcm.ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.wantKind.String(), func(t *testing.T) {
			err := gdcm.Classify(tt.status)
			if err.Kind != tt.wantKind {
				t.Errorf("Classify(%d).Kind = %v, want %v", tt.status, err.Kind, tt.wantKind)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Classify(%d) does not match %v", tt.status, tt.wantErr)
			}
			if tt.wantKind == gdcm.KindUnknown && err.Code != tt.status {
				t.Errorf("Classify(%d).Code = %d, want raw code preserved", tt.status, err.Code)
			}
		})
	}
}

func TestDecodeErrorMessages(t *testing.T) {
	tests := []struct {
		err  *gdcm.DecodeError
		want string
	}{
		{gdcm.Classify(1), "native allocation failure"},
		{gdcm.Classify(2), "native stream read failure"},
		{gdcm.Classify(77), "unknown native status: 77"},
		{&gdcm.DecodeError{Kind: gdcm.KindInvalidPointer}, "native library returned no usable buffer"},
		{&gdcm.DecodeError{Kind: gdcm.KindInvalidPointer, Reason: "got 3 bytes"}, "native library returned no usable buffer: got 3 bytes"},
		{&gdcm.DecodeError{Kind: gdcm.KindInvalidIdentifier, Identifier: "x"}, `invalid identifier: "x"`},
		{&gdcm.DecodeError{Kind: gdcm.KindInvalidRequest, Reason: "no frames"}, "invalid decode request: no frames"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	if got := gdcm.ErrorKind(42).String(); got != "ErrorKind(42)" {
		t.Errorf("String() = %q", got)
	}
}
