package components

import (
	"fmt"

	"inpaint-masker/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// BrushControl is the brush size slider with its label.
type BrushControl struct {
	container *fyne.Container
	slider    *widget.Slider
	label     *widget.Label

	changeHandler func(int) int
	size          int
}

func NewBrushControl(size int) *BrushControl {
	bc := &BrushControl{size: config.ClampBrushSize(size)}

	bc.label = widget.NewLabel(brushLabel(bc.size))
	bc.slider = widget.NewSlider(config.MinBrushSize, config.MaxBrushSize)
	bc.slider.Step = 1
	bc.slider.SetValue(float64(bc.size))
	bc.slider.OnChanged = bc.onChanged

	bc.container = container.NewBorder(nil, nil, bc.label, nil, bc.slider)
	return bc
}

func brushLabel(size int) string {
	return fmt.Sprintf("Brush Size: %dpx", size)
}

func (bc *BrushControl) onChanged(value float64) {
	size := int(value + 0.5)
	if bc.changeHandler != nil {
		size = bc.changeHandler(size)
	} else {
		size = config.ClampBrushSize(size)
	}
	if size == bc.size {
		return
	}
	bc.size = size
	bc.label.SetText(brushLabel(size))
}

// SetChangeHandler sets the callback that applies a new size and returns the
// effective one.
func (bc *BrushControl) SetChangeHandler(handler func(int) int) {
	bc.changeHandler = handler
}

// SetSize moves the slider without calling the change handler.
func (bc *BrushControl) SetSize(size int) {
	size = config.ClampBrushSize(size)
	bc.size = size
	bc.label.SetText(brushLabel(size))

	handler := bc.changeHandler
	bc.changeHandler = nil
	bc.slider.SetValue(float64(size))
	bc.changeHandler = handler
}

func (bc *BrushControl) Size() int {
	return bc.size
}

func (bc *BrushControl) GetContainer() *fyne.Container {
	return bc.container
}
