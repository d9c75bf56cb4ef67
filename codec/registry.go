package codec

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cocosip/go-dicom-gdcm/gdcm"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	dcodec "github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Supported lists the transfer syntaxes decoded through GDCM with the codec
// name used for each.
var Supported = []struct {
	Name           string
	TransferSyntax *transfer.Syntax
}{
	{"GDCM JPEG Baseline", transfer.JPEGBaseline8Bit},
	{"GDCM JPEG Extended", transfer.JPEGExtended12Bit},
	{"GDCM JPEG Lossless", transfer.JPEGLossless},
	{"GDCM JPEG Lossless SV1", transfer.JPEGLosslessSV1},
	{"GDCM JPEG-LS Lossless", transfer.JPEGLSLossless},
	{"GDCM JPEG-LS Near Lossless", transfer.JPEGLSNearLossless},
	{"GDCM JPEG 2000 Lossless", transfer.JPEG2000Lossless},
	{"GDCM JPEG 2000", transfer.JPEG2000},
	{"GDCM RLE Lossless", transfer.RLELossless},
}

// Registry manages the GDCM codecs by name and transfer syntax UID
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]*Codec // key can be either name or UID
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]*Codec),
	}
}

var defaultRegistry = NewRegistry()

// Register registers a codec in the default registry
func Register(c *Codec) {
	defaultRegistry.Register(c)
}

// Get retrieves a codec from the default registry by name or UID
func Get(nameOrUID string) (*Codec, error) {
	return defaultRegistry.Get(nameOrUID)
}

// List returns all codecs in the default registry
func List() []*Codec {
	return defaultRegistry.List()
}

// Register registers a codec using both its name and UID
func (r *Registry) Register(c *Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[c.Name()] = c
	r.codecs[c.UID()] = c
}

// Get retrieves a codec by name or UID
func (r *Registry) Get(nameOrUID string) (*Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[nameOrUID]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return c, nil
}

// List returns all registered codecs (deduplicated), ordered by UID
func (r *Registry) List() []*Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*Codec]bool)
	codecs := make([]*Codec, 0)
	for _, c := range r.codecs {
		if !seen[c] {
			seen[c] = true
			codecs = append(codecs, c)
		}
	}
	sort.Slice(codecs, func(i, j int) bool {
		return codecs[i].UID() < codecs[j].UID()
	})
	return codecs
}

// NewCodecs builds one codec per entry of Supported, all sharing dec
func NewCodecs(dec *gdcm.Decoder, opts ...Option) ([]*Codec, error) {
	codecs := make([]*Codec, 0, len(Supported))
	for _, s := range Supported {
		c, err := NewCodec(s.Name, s.TransferSyntax, dec, opts...)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, c)
	}
	return codecs, nil
}

// RegisterAll builds the GDCM codecs and registers them in the default
// registry and in go-dicom's global codec registry, replacing any codec
// previously registered there for the same transfer syntax.
func RegisterAll(dec *gdcm.Decoder, opts ...Option) error {
	codecs, err := NewCodecs(dec, opts...)
	if err != nil {
		return fmt.Errorf("build GDCM codecs: %w", err)
	}
	registry := dcodec.GetGlobalRegistry()
	for _, c := range codecs {
		Register(c)
		registry.RegisterCodec(c.TransferSyntax(), c)
	}
	return nil
}
