package models

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// SourceImage is the decoded picture the user paints over.
type SourceImage struct {
	ID       string
	Name     string
	MIMEType string
	Image    image.Image
	Width    int
	Height   int
	FileSize int64
	LoadTime time.Time
}

// NewSourceImage wraps a decoded image with its upload metadata.
func NewSourceImage(name, mimeType string, img image.Image, size int64) *SourceImage {
	bounds := img.Bounds()
	return &SourceImage{
		ID:       uuid.NewString(),
		Name:     name,
		MIMEType: mimeType,
		Image:    img,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		FileSize: size,
		LoadTime: time.Now(),
	}
}

// MaskImage is a binary mask derived from the drawing surface.
type MaskImage struct {
	Image     *image.RGBA
	PNG       []byte
	FileName  string
	Backend   string
	CreatedAt time.Time
}

// Size returns the pixel dimensions of the mask.
func (m *MaskImage) Size() (int, int) {
	if m == nil || m.Image == nil {
		return 0, 0
	}
	b := m.Image.Bounds()
	return b.Dx(), b.Dy()
}
