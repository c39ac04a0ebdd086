package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	PreviewWidth  = 240
	PreviewHeight = 180
)

// Previews shows the uploaded image and the last exported mask side by side.
type Previews struct {
	container *fyne.Container
	original  *canvas.Image
	mask      *canvas.Image

	hasMask bool
}

func NewPreviews() *Previews {
	p := &Previews{
		original: newPreviewImage(),
		mask:     newPreviewImage(),
	}

	p.container = container.NewGridWithColumns(2,
		previewPane("**Original Image**", p.original),
		previewPane("**Mask**", p.mask),
	)
	return p
}

func newPreviewImage() *canvas.Image {
	img := canvas.NewImageFromImage(placeholderImage())
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(PreviewWidth, PreviewHeight))
	return img
}

func previewPane(title string, img *canvas.Image) fyne.CanvasObject {
	return container.NewBorder(
		widget.NewRichTextFromMarkdown(title),
		nil, nil, nil,
		container.NewStack(canvas.NewRectangle(color.RGBA{R: 240, G: 240, B: 240, A: 255}), img),
	)
}

func placeholderImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// SetOriginal shows img in the original pane, or the placeholder when nil.
func (p *Previews) SetOriginal(img image.Image) {
	if img == nil {
		img = placeholderImage()
	}
	p.original.Image = img
	p.original.Refresh()
}

// SetMask shows img in the mask pane, or the placeholder when nil.
func (p *Previews) SetMask(img image.Image) {
	p.hasMask = img != nil
	if img == nil {
		img = placeholderImage()
	}
	p.mask.Image = img
	p.mask.Refresh()
}

func (p *Previews) HasMask() bool { return p.hasMask }

func (p *Previews) GetContainer() *fyne.Container {
	return p.container
}
