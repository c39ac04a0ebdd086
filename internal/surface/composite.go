package surface

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// UnderlayOpacity is the alpha the source image is shown with beneath the strokes.
const UnderlayOpacity = 128

// Composite builds the frame shown in the paint canvas: black background, the
// underlay at half opacity, and the stroke layer on top, scaled to w x h device
// pixels. underlay may be nil; it is expected to already be canvas sized.
func Composite(underlay image.Image, layer *image.RGBA, w, h int) *image.RGBA {
	bounds := layer.Bounds()
	frame := image.NewRGBA(bounds)
	draw.Draw(frame, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)

	if underlay != nil {
		draw.DrawMask(frame, bounds, underlay, underlay.Bounds().Min,
			image.NewUniform(color.Alpha{A: UnderlayOpacity}), image.Point{}, draw.Over)
	}
	draw.Draw(frame, bounds, layer, bounds.Min, draw.Over)

	if w <= 0 || h <= 0 || (w == bounds.Dx() && h == bounds.Dy()) {
		return frame
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, bounds, draw.Src, nil)
	return scaled
}
