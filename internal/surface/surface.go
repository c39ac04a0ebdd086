// Package surface holds the freehand stroke model behind the paint canvas and
// renders it to a raster layer.
package surface

import (
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// ErrNotReady is returned by Snapshot before an image is attached or while the
// surface has no area.
var ErrNotReady = errors.New("drawing surface not ready")

// BrushColor is the stroke colour. Only alpha matters for mask extraction.
var BrushColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

const minRadius = 0.5

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Stroke is one continuous brush movement. Radius is fixed when the stroke begins.
type Stroke struct {
	Radius float64
	Points []Point
}

// Surface records strokes in canvas coordinates. It is safe for concurrent use.
type Surface struct {
	mu      sync.RWMutex
	width   int
	height  int
	radius  float64
	strokes []Stroke
	drawing bool
	ready   bool
}

// New creates an empty surface of w x h canvas units.
func New(width, height int, radius float64) *Surface {
	s := &Surface{width: width, height: height}
	s.SetBrushRadius(radius)
	return s
}

// Resize changes the canvas area. Strokes are kept and re-rendered at the new size.
func (s *Surface) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Size returns the canvas area in canvas units.
func (s *Surface) Size() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// SetBrushRadius sets the radius used by strokes that begin after the call.
func (s *Surface) SetBrushRadius(radius float64) {
	if radius < minRadius {
		radius = minRadius
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radius = radius
}

func (s *Surface) BrushRadius() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.radius
}

// SetReady marks whether an image is attached. Input is ignored while not ready.
func (s *Surface) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
	if !ready {
		s.drawing = false
	}
}

func (s *Surface) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// BeginStroke starts a new stroke at p.
func (s *Surface) BeginStroke(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return
	}
	s.strokes = append(s.strokes, Stroke{Radius: s.radius, Points: []Point{p}})
	s.drawing = true
}

// ExtendStroke appends p to the current stroke, starting one if needed.
func (s *Surface) ExtendStroke(p Point) {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return
	}
	if !s.drawing {
		s.mu.Unlock()
		s.BeginStroke(p)
		return
	}
	defer s.mu.Unlock()

	current := &s.strokes[len(s.strokes)-1]
	if last := current.Points[len(current.Points)-1]; last == p {
		return
	}
	current.Points = append(current.Points, p)
}

// Drawing reports whether a stroke is in progress.
func (s *Surface) Drawing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drawing
}

// EndStroke finishes the current stroke.
func (s *Surface) EndStroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawing = false
}

// Clear removes every stroke.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strokes = nil
	s.drawing = false
}

// Strokes returns a copy of the recorded strokes.
func (s *Surface) Strokes() []Stroke {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Stroke, len(s.strokes))
	for i, st := range s.strokes {
		out[i] = Stroke{Radius: st.Radius, Points: append([]Point(nil), st.Points...)}
	}
	return out
}

// Snapshot renders the stroke layer for extraction.
func (s *Surface) Snapshot() (*image.RGBA, error) {
	s.mu.RLock()
	ready, w, h := s.ready, s.width, s.height
	s.mu.RUnlock()

	if !ready || w <= 0 || h <= 0 {
		return nil, ErrNotReady
	}
	return s.Render(), nil
}

// Render draws all strokes on a transparent layer of the canvas size.
func (s *Surface) Render() *image.RGBA {
	s.mu.RLock()
	w, h := s.width, s.height
	s.mu.RUnlock()

	return renderStrokes(w, h, s.Strokes())
}

func renderStrokes(width, height int, strokes []Stroke) *image.RGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if len(strokes) == 0 || width == 0 || height == 0 {
		return img
	}

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	stroker := rasterx.NewStroker(width, height, scanner)
	stroker.SetColor(BrushColor)

	for _, st := range strokes {
		if len(st.Points) == 0 {
			continue
		}
		first := st.Points[0]

		if isDot(st.Points) {
			rasterx.AddCircle(first.X, first.Y, st.Radius, &stroker.Filler)
		} else {
			lineWidth := fixed.Int26_6(st.Radius * 2 * 64)
			stroker.SetStroke(lineWidth, 4<<6, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round)
			stroker.Start(rasterx.ToFixedP(first.X, first.Y))
			for _, p := range st.Points[1:] {
				stroker.Line(rasterx.ToFixedP(p.X, p.Y))
			}
			stroker.Stop(false)
		}
		stroker.Draw()
		stroker.Clear()
	}
	return img
}

func isDot(points []Point) bool {
	for _, p := range points[1:] {
		if p != points[0] {
			return false
		}
	}
	return true
}
