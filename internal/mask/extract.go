// Package mask turns a painted stroke layer into a binary black/white mask.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
	"sync"
)

// FileName is the name exported masks are delivered under.
const FileName = "mask.png"

const (
	GoBackend     = "go"
	OpenCVBackend = "opencv"
)

var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}

	ErrEmptyLayer     = errors.New("stroke layer is empty")
	ErrUnknownBackend = errors.New("unknown mask backend")
)

// Extractor converts a stroke layer into a mask of identical bounds.
type Extractor interface {
	Name() string
	Extract(layer *image.RGBA) (*image.RGBA, error)
}

var (
	backendsMu sync.RWMutex
	backends   = map[string]func() Extractor{
		GoBackend: func() Extractor { return threshold{} },
	}
)

func register(name string, factory func() Extractor) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// NewExtractor resolves a backend by name. An empty name selects the Go backend.
func NewExtractor(name string) (Extractor, error) {
	if name == "" {
		name = GoBackend
	}

	backendsMu.RLock()
	factory, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return factory(), nil
}

// Backends lists the compiled-in backend names.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract returns a fully opaque mask with the same bounds as layer: white where
// the layer alpha is greater than zero, black everywhere else.
func Extract(layer *image.RGBA) *image.RGBA {
	bounds := layer.Bounds()
	out := image.NewRGBA(bounds)
	width := bounds.Dx()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		src := layer.Pix[layer.PixOffset(bounds.Min.X, y):]
		dst := out.Pix[out.PixOffset(bounds.Min.X, y):]
		for x := 0; x < width; x++ {
			i := x * 4
			v := uint8(0)
			if src[i+3] > 0 {
				v = 255
			}
			dst[i], dst[i+1], dst[i+2], dst[i+3] = v, v, v, 255
		}
	}
	return out
}

// threshold is the pure Go backend.
type threshold struct{}

func (threshold) Name() string { return GoBackend }

func (threshold) Extract(layer *image.RGBA) (*image.RGBA, error) {
	if err := validateLayer(layer); err != nil {
		return nil, err
	}
	return Extract(layer), nil
}

func validateLayer(layer *image.RGBA) error {
	if layer == nil || layer.Bounds().Empty() {
		return ErrEmptyLayer
	}
	return nil
}
