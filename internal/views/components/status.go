package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
)

const (
	StatusReady = "Ready"
	noImageText = "No image loaded"
	noMaskText  = "No mask exported"
)

// StatusBar displays the last notification and image/mask details.
type StatusBar struct {
	container   *fyne.Container
	statusLabel *widget.Label
	imageInfo   *widget.Label
	maskInfo    *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{
		statusLabel: widget.NewLabel(StatusReady),
		imageInfo:   widget.NewLabel(noImageText),
		maskInfo:    widget.NewLabel(noMaskText),
	}
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.imageInfo,
		widget.NewSeparator(),
		sb.maskInfo,
	)
	return sb
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetImageInfo shows name, dimensions and file size of the source image.
func (sb *StatusBar) SetImageInfo(name string, width, height int, size int64) {
	sb.imageInfo.SetText(fmt.Sprintf("%s: %dx%d, %s", name, width, height, humanize.Bytes(uint64(size))))
}

// SetMaskInfo shows dimensions and encoded size of the exported mask.
func (sb *StatusBar) SetMaskInfo(width, height, size int) {
	sb.maskInfo.SetText(fmt.Sprintf("Mask: %dx%d, %s", width, height, humanize.Bytes(uint64(size))))
}

func (sb *StatusBar) ClearImageInfo() {
	sb.imageInfo.SetText(noImageText)
}

func (sb *StatusBar) ClearMaskInfo() {
	sb.maskInfo.SetText(noMaskText)
}

func (sb *StatusBar) GetImageInfo() string {
	return sb.imageInfo.Text
}

func (sb *StatusBar) GetMaskInfo() string {
	return sb.maskInfo.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
