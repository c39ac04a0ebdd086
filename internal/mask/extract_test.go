package mask

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paintedLayer(w, h int, painted map[image.Point]uint8) *image.RGBA {
	layer := image.NewRGBA(image.Rect(0, 0, w, h))
	for p, a := range painted {
		layer.SetRGBA(p.X, p.Y, color.RGBA{R: a, G: a, B: a, A: a})
	}
	return layer
}

func TestExtract_BinaryThreshold(t *testing.T) {
	layer := paintedLayer(4, 3, map[image.Point]uint8{
		{X: 0, Y: 0}: 255,
		{X: 2, Y: 1}: 1, // faintest anti-aliased edge still counts
		{X: 3, Y: 2}: 128,
	})

	out := Extract(layer)

	require.Equal(t, layer.Bounds(), out.Bounds())
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			want := Black
			if layer.RGBAAt(x, y).A > 0 {
				want = White
			}
			assert.Equal(t, want, out.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestExtract_ColorWithoutAlphaIsBlack(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 2, 1))
	// Colour channels set but fully transparent.
	layer.Pix[0], layer.Pix[1], layer.Pix[2] = 200, 200, 200

	out := Extract(layer)

	assert.Equal(t, Black, out.RGBAAt(0, 0))
	assert.Equal(t, Black, out.RGBAAt(1, 0))
}

func TestExtract_EmptyLayerIsAllBlack(t *testing.T) {
	out := Extract(image.NewRGBA(image.Rect(0, 0, 800, 600)))

	assert.Equal(t, image.Rect(0, 0, 800, 600), out.Bounds())
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 0 || out.Pix[i+3] != 255 {
			t.Fatalf("pixel %d not opaque black: %v", i/4, out.Pix[i:i+4])
		}
	}
}

func TestExtract_OffsetBounds(t *testing.T) {
	layer := image.NewRGBA(image.Rect(10, 20, 14, 23))
	layer.SetRGBA(12, 21, color.RGBA{A: 255, R: 255})

	out := Extract(layer)

	assert.Equal(t, layer.Bounds(), out.Bounds())
	assert.Equal(t, White, out.RGBAAt(12, 21))
	assert.Equal(t, Black, out.RGBAAt(10, 20))
}

func TestNewExtractor(t *testing.T) {
	ex, err := NewExtractor("")
	require.NoError(t, err)
	assert.Equal(t, GoBackend, ex.Name())

	_, err = NewExtractor("cuda")
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Contains(t, Backends(), GoBackend)
}

func TestGoBackend_RejectsEmptyLayer(t *testing.T) {
	ex, err := NewExtractor(GoBackend)
	require.NoError(t, err)

	_, err = ex.Extract(nil)
	assert.ErrorIs(t, err, ErrEmptyLayer)

	_, err = ex.Extract(image.NewRGBA(image.Rectangle{}))
	assert.ErrorIs(t, err, ErrEmptyLayer)
}

func TestEncodePNG_PreservesMask(t *testing.T) {
	layer := paintedLayer(5, 5, map[image.Point]uint8{{X: 2, Y: 2}: 90})
	data, err := EncodePNG(Extract(layer))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 5, 5), decoded.Bounds())

	r, g, b, a := decoded.At(2, 2).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
	r, g, b, a = decoded.At(0, 0).RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0, 0xffff}, [4]uint32{r, g, b, a})

	_, err = EncodePNG(nil)
	assert.Error(t, err)
}

func TestDecodeLayer_ConvertsToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	src.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 40})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	layer, err := DecodeLayer(&buf)
	require.NoError(t, err)

	assert.NotZero(t, layer.RGBAAt(1, 1).A)
	assert.Zero(t, layer.RGBAAt(0, 0).A)

	_, err = DecodeLayer(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
