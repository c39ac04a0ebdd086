//go:build opencv

package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCVBackend_MatchesGoBackend(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 10; x < 30; x++ {
		layer.SetRGBA(x, 20, color.RGBA{R: 255, G: 255, B: 255, A: uint8(x)})
	}

	ex, err := NewExtractor(OpenCVBackend)
	require.NoError(t, err)

	got, err := ex.Extract(layer)
	require.NoError(t, err)
	assert.Equal(t, Extract(layer).Pix, got.Pix)
}
