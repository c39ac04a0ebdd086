package components

import (
	"image"
	"image/color"
	"sync"

	"inpaint-masker/internal/services"
	"inpaint-masker/internal/surface"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	PlaceholderText = "Upload an image to start"
	minCanvasWidth  = 200
)

// PaintCanvas is the drawing area. It shows the source image at half opacity on
// black and records drags and taps as brush strokes on the surface. Its width
// follows the container; its height is fixed.
type PaintCanvas struct {
	widget.BaseWidget

	surface     *surface.Surface
	height      float32
	raster      *canvas.Raster
	placeholder *widget.Label

	mu       sync.Mutex
	source   image.Image
	underlay *image.RGBA
}

// NewPaintCanvas creates a paint canvas over s. The surface height is kept fixed.
func NewPaintCanvas(s *surface.Surface) *PaintCanvas {
	_, h := s.Size()
	pc := &PaintCanvas{
		surface: s,
		height:  float32(h),
	}
	pc.raster = canvas.NewRaster(pc.draw)
	pc.placeholder = widget.NewLabel(PlaceholderText)
	pc.placeholder.Alignment = fyne.TextAlignCenter
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PaintCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Black)
	return widget.NewSimpleRenderer(container.NewStack(bg, pc.raster, container.NewCenter(pc.placeholder)))
}

func (pc *PaintCanvas) MinSize() fyne.Size {
	return fyne.NewSize(minCanvasWidth, pc.height)
}

// Resize keeps the surface width in step with the widget.
func (pc *PaintCanvas) Resize(size fyne.Size) {
	pc.BaseWidget.Resize(size)
	pc.surface.Resize(int(size.Width), int(pc.height))
}

// SetSource replaces the underlay image. nil shows the placeholder.
func (pc *PaintCanvas) SetSource(img image.Image) {
	pc.mu.Lock()
	pc.source = img
	pc.underlay = nil
	pc.mu.Unlock()

	if img == nil {
		pc.placeholder.Show()
	} else {
		pc.placeholder.Hide()
	}
	pc.raster.Refresh()
}

func (pc *PaintCanvas) HasSource() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.source != nil
}

// Dragged extends the current stroke. The first event of a drag starts the
// stroke where the pointer was pressed.
func (pc *PaintCanvas) Dragged(ev *fyne.DragEvent) {
	if !pc.surface.Drawing() {
		pc.surface.BeginStroke(toPoint(ev.Position.Subtract(ev.Dragged)))
	}
	pc.surface.ExtendStroke(toPoint(ev.Position))
	pc.raster.Refresh()
}

func (pc *PaintCanvas) DragEnd() {
	pc.surface.EndStroke()
}

func (pc *PaintCanvas) Tapped(ev *fyne.PointEvent) {
	pc.surface.BeginStroke(toPoint(ev.Position))
	pc.surface.EndStroke()
	pc.raster.Refresh()
}

func (pc *PaintCanvas) Refresh() {
	pc.raster.Refresh()
	pc.BaseWidget.Refresh()
}

func toPoint(pos fyne.Position) surface.Point {
	return surface.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

// draw renders the frame at device pixel size w x h.
func (pc *PaintCanvas) draw(w, h int) image.Image {
	sw, sh := pc.surface.Size()
	if sw <= 0 || sh <= 0 {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return surface.Composite(pc.underlayFor(sw, sh), pc.surface.Render(), w, h)
}

func (pc *PaintCanvas) underlayFor(w, h int) image.Image {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.source == nil {
		return nil
	}
	if pc.underlay == nil || pc.underlay.Bounds().Dx() != w || pc.underlay.Bounds().Dy() != h {
		pc.underlay = services.FitContain(pc.source, w, h)
	}
	return pc.underlay
}
