//go:build !cgo || !gdcm

package gdcm

// OpenNative reports ErrNativeUnavailable: this build does not link the
// GDCM wrapper. Build with CGO_ENABLED=1 and -tags gdcm to enable it.
func OpenNative() (Library, error) {
	return nil, ErrNativeUnavailable
}
