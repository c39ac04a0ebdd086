//go:build opencv

package mask

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func init() {
	register(OpenCVBackend, func() Extractor { return opencvThreshold{} })
}

// opencvThreshold runs a binary threshold over the alpha plane with OpenCV.
type opencvThreshold struct{}

func (opencvThreshold) Name() string { return OpenCVBackend }

func (opencvThreshold) Extract(layer *image.RGBA) (*image.RGBA, error) {
	if err := validateLayer(layer); err != nil {
		return nil, err
	}

	bounds := layer.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	alpha := make([]byte, width*height)
	for y := 0; y < height; y++ {
		row := layer.Pix[layer.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			alpha[y*width+x] = row[x*4+3]
		}
	}

	src, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC1, alpha)
	if err != nil {
		return nil, fmt.Errorf("failed to create alpha Mat: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	// alpha > 0 -> 255, else 0
	gocv.Threshold(src, &dst, 0, 255, gocv.ThresholdBinary)
	if dst.Empty() {
		return nil, fmt.Errorf("threshold produced an empty Mat")
	}

	binary := dst.ToBytes()
	if len(binary) != width*height {
		return nil, fmt.Errorf("unexpected threshold size %d, want %d", len(binary), width*height)
	}

	out := image.NewRGBA(bounds)
	for y := 0; y < height; y++ {
		row := out.Pix[out.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			v := binary[y*width+x]
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = v, v, v, 255
		}
	}
	return out, nil
}
