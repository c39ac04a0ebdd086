package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the upload, clear and export actions.
type Toolbar struct {
	container    *fyne.Container
	uploadButton *widget.Button
	clearButton  *widget.Button
	exportButton *widget.Button

	uploadHandler func()
	clearHandler  func()
	exportHandler func()
}

// NewToolbar creates a new toolbar component
func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.uploadButton = widget.NewButtonWithIcon("Upload Image", theme.FolderOpenIcon(), func() {
		if t.uploadHandler != nil {
			t.uploadHandler()
		}
	})
	t.uploadButton.Importance = widget.HighImportance

	t.clearButton = widget.NewButtonWithIcon("Clear Canvas", theme.DeleteIcon(), func() {
		if t.clearHandler != nil {
			t.clearHandler()
		}
	})

	t.exportButton = widget.NewButtonWithIcon("Export Mask", theme.DocumentSaveIcon(), func() {
		if t.exportHandler != nil {
			t.exportHandler()
		}
	})
	t.exportButton.Importance = widget.HighImportance
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		t.uploadButton,
		widget.NewSeparator(),
		t.clearButton,
		t.exportButton,
	)
}

func (t *Toolbar) SetUploadHandler(handler func()) {
	t.uploadHandler = handler
}

func (t *Toolbar) SetClearHandler(handler func()) {
	t.clearHandler = handler
}

func (t *Toolbar) SetExportHandler(handler func()) {
	t.exportHandler = handler
}

// SetBusy disables the actions while an upload or export is in flight.
func (t *Toolbar) SetBusy(busy bool) {
	for _, b := range []*widget.Button{t.uploadButton, t.clearButton, t.exportButton} {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
}

// GetContainer returns the toolbar container
func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
