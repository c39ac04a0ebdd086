package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"inpaint-masker/internal/config"
	"inpaint-masker/internal/logger"
	"inpaint-masker/internal/models"

	"golang.org/x/image/draw"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not JPEG or PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrImageTooLarge is returned when the header declares more pixels than allowed.
	ErrImageTooLarge = errors.New("image too large")
)

// Upload is a file chosen by the user. MIMEType is the type the picker reported
// and may be empty.
type Upload struct {
	Name     string
	MIMEType string
	Reader   io.ReadCloser
}

// ImageService decodes uploads and prepares them for display.
type ImageService struct {
	logger    logger.Logger
	maxPixels int
}

// NewImageService creates a new image service
func NewImageService(log logger.Logger) *ImageService {
	return &ImageService{logger: log, maxPixels: config.DefaultMaxImagePixels}
}

// SetMaxPixels sets the largest width*height accepted for upload.
func (is *ImageService) SetMaxPixels(n int) {
	if n <= 0 {
		n = config.DefaultMaxImagePixels
	}
	is.maxPixels = n
}

// LoadImage reads and decodes an upload. Only JPEG and PNG are accepted.
func (is *ImageService) LoadImage(ctx context.Context, upload *Upload) (*models.SourceImage, error) {
	if upload == nil || upload.Reader == nil {
		return nil, fmt.Errorf("no file provided")
	}
	defer upload.Reader.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	startTime := time.Now()

	data, err := io.ReadAll(bufio.NewReader(upload.Reader))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	mimeType := is.DetectMIMEType(upload.MIMEType, data)
	if !is.ValidateMIMEType(mimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(is.maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, is.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if "image/"+format != mimeType {
		return nil, fmt.Errorf("%w: content is %s, declared %s", ErrUnsupportedFormat, format, mimeType)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	source := models.NewSourceImage(upload.Name, mimeType, img, int64(len(data)))

	is.logger.Debug("ImageService", "image decoded", map[string]interface{}{
		"name":        source.Name,
		"format":      format,
		"width":       source.Width,
		"height":      source.Height,
		"bytes":       source.FileSize,
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return source, nil
}

// DetectMIMEType prefers the sniffed content type when it is an image, and falls
// back to the declared one.
func (is *ImageService) DetectMIMEType(declared string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		return strings.ToLower(mediaType)
	}
	return sniffed
}

// ValidateMIMEType reports whether the type is accepted for upload.
func (is *ImageService) ValidateMIMEType(mimeType string) bool {
	for _, supported := range is.GetSupportedMIMETypes() {
		if mimeType == supported {
			return true
		}
	}
	return false
}

// GetSupportedMIMETypes returns the MIME types the file picker is restricted to.
func (is *ImageService) GetSupportedMIMETypes() []string {
	return []string{MIMETypeJPEG, MIMETypePNG}
}

// FitContain scales img to fit inside a w x h canvas, preserving aspect ratio and
// centring it. The area outside the image stays transparent.
func FitContain(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if img == nil || w <= 0 || h <= 0 {
		return dst
	}

	src := img.Bounds()
	if src.Empty() {
		return dst
	}

	scale := float64(w) / float64(src.Dx())
	if s := float64(h) / float64(src.Dy()); s < scale {
		scale = s
	}

	fitW := int(float64(src.Dx())*scale + 0.5)
	fitH := int(float64(src.Dy())*scale + 0.5)
	if fitW < 1 {
		fitW = 1
	}
	if fitH < 1 {
		fitH = 1
	}

	offX := (w - fitW) / 2
	offY := (h - fitH) / 2
	target := image.Rect(offX, offY, offX+fitW, offY+fitH)

	draw.CatmullRom.Scale(dst, target, img, src, draw.Src, nil)
	return dst
}
