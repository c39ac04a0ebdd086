package views

import (
	"context"
	"errors"
	"fmt"

	"inpaint-masker/internal/controllers"
	"inpaint-masker/internal/logger"
	"inpaint-masker/internal/models"
	"inpaint-masker/internal/services"
	"inpaint-masker/internal/surface"
	"inpaint-masker/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// Options configures the main view.
type Options struct {
	Logger               logger.Logger
	AppName              string
	BrushSize            int
	DesktopNotifications bool
}

// MainView is the editor window: toolbar, brush slider, paint canvas, previews
// and status bar. It implements controllers.EditorView and, through the save
// dialog, services.Deliverer.
type MainView struct {
	window        fyne.Window
	options       Options
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	brush         *components.BrushControl
	paintCanvas   *components.PaintCanvas
	previews      *components.Previews
	statusBar     *components.StatusBar

	uploadHandler func(*services.Upload)
	clearHandler  func()
	exportHandler func()
}

var (
	_ controllers.EditorView = (*MainView)(nil)
	_ services.Deliverer     = (*MainView)(nil)
)

// NewMainView creates a new main view
func NewMainView(window fyne.Window, s *surface.Surface, options Options) *MainView {
	if options.Logger == nil {
		options.Logger = logger.Nop()
	}
	view := &MainView{
		window:  window,
		options: options,
	}

	view.initializeComponents(s)
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents(s *surface.Surface) {
	mv.toolbar = components.NewToolbar()
	mv.brush = components.NewBrushControl(mv.options.BrushSize)
	mv.paintCanvas = components.NewPaintCanvas(s)
	mv.previews = components.NewPreviews()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	topArea := container.NewVBox(
		mv.toolbar.GetContainer(),
		mv.brush.GetContainer(),
	)

	contentArea := container.NewVScroll(container.NewVBox(
		mv.paintCanvas,
		mv.previews.GetContainer(),
	))

	mv.mainContainer = container.NewBorder(
		topArea,
		mv.statusBar.GetContainer(),
		nil,
		nil,
		contentArea,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetUploadHandler(mv.showOpenDialog)

	mv.toolbar.SetClearHandler(func() {
		if mv.clearHandler != nil {
			mv.clearHandler()
		}
	})

	mv.toolbar.SetExportHandler(func() {
		if mv.exportHandler == nil {
			return
		}
		mv.toolbar.SetBusy(true)
		go func() {
			mv.exportHandler()
			fyne.Do(func() { mv.toolbar.SetBusy(false) })
		}()
	})
}

func (mv *MainView) showOpenDialog() {
	d := dialog.NewFileOpen(mv.onFileOpened, mv.window)
	d.SetFilter(storage.NewMimeTypeFileFilter([]string{services.MIMETypeJPEG, services.MIMETypePNG}))
	d.Show()
}

// onFileOpened runs on the UI goroutine with the open dialog result. A nil reader
// means the dialog was dismissed.
func (mv *MainView) onFileOpened(reader fyne.URIReadCloser, err error) {
	if err != nil {
		mv.options.Logger.Error("MainView", "file dialog failed", err, nil)
		mv.Notify(controllers.Notification{
			Level:   controllers.NotifyError,
			Message: controllers.MsgUploadFailed,
			Err:     err,
		})
		return
	}
	if reader == nil || mv.uploadHandler == nil {
		if reader != nil {
			reader.Close()
		}
		return
	}

	upload := &services.Upload{
		Name:     reader.URI().Name(),
		MIMEType: reader.URI().MimeType(),
		Reader:   reader,
	}

	mv.toolbar.SetBusy(true)
	go func() {
		mv.uploadHandler(upload)
		fyne.Do(func() { mv.toolbar.SetBusy(false) })
	}()
}

// Handlers - set by the application wiring.

// SetUploadHandler sets the handler run off the UI goroutine with the chosen file.
func (mv *MainView) SetUploadHandler(handler func(*services.Upload)) {
	mv.uploadHandler = handler
}

func (mv *MainView) SetClearHandler(handler func()) {
	mv.clearHandler = handler
}

// SetExportHandler sets the handler run off the UI goroutine on export.
func (mv *MainView) SetExportHandler(handler func()) {
	mv.exportHandler = handler
}

// SetBrushSizeHandler sets the handler that applies a slider change and returns
// the effective size.
func (mv *MainView) SetBrushSizeHandler(handler func(int) int) {
	mv.brush.SetChangeHandler(handler)
}

// EditorView

func (mv *MainView) SetSourceImage(img *models.SourceImage) {
	fyne.Do(func() {
		if img == nil {
			mv.paintCanvas.SetSource(nil)
			mv.previews.SetOriginal(nil)
			mv.statusBar.ClearImageInfo()
			return
		}
		mv.paintCanvas.SetSource(img.Image)
		mv.previews.SetOriginal(img.Image)
		mv.statusBar.SetImageInfo(img.Name, img.Width, img.Height, img.FileSize)
	})
}

func (mv *MainView) SetMaskImage(m *models.MaskImage) {
	fyne.Do(func() {
		if m == nil {
			mv.previews.SetMask(nil)
			mv.statusBar.ClearMaskInfo()
			return
		}
		w, h := m.Size()
		mv.previews.SetMask(m.Image)
		mv.statusBar.SetMaskInfo(w, h, len(m.PNG))
	})
}

func (mv *MainView) SetBrushSize(size int) {
	fyne.Do(func() {
		mv.brush.SetSize(size)
	})
}

func (mv *MainView) RefreshCanvas() {
	fyne.Do(func() {
		mv.paintCanvas.Refresh()
	})
}

// Notify shows n in the status bar. Errors also open an error dialog.
func (mv *MainView) Notify(n controllers.Notification) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(n.Message)

		if n.Level == controllers.NotifyError {
			dialog.ShowError(errors.New(n.Message), mv.window)
		}

		if mv.options.DesktopNotifications {
			if app := fyne.CurrentApp(); app != nil {
				app.SendNotification(fyne.NewNotification(mv.options.AppName, n.Message))
			}
		}
	})
}

// Deliver asks the user where to save the file, with name preselected, and
// writes data there. A dismissed dialog returns services.ErrDeliveryCancelled.
func (mv *MainView) Deliver(ctx context.Context, name string, data []byte) error {
	result := make(chan error, 1)

	fyne.Do(func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil {
				result <- err
				return
			}
			if writer == nil {
				result <- services.ErrDeliveryCancelled
				return
			}
			result <- writeAndClose(writer, data)
		}, mv.window)
		d.SetFileName(name)
		d.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
		d.Show()
	})

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func writeAndClose(writer fyne.URIWriteCloser, data []byte) error {
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write %s: %w", writer.URI().Name(), err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", writer.URI().Name(), err)
	}
	return nil
}

// GetPaintCanvas returns the drawing area.
func (mv *MainView) GetPaintCanvas() *components.PaintCanvas {
	return mv.paintCanvas
}

// ViewState represents the current state of the view
type ViewState struct {
	HasSourceImage bool
	HasMaskPreview bool
	BrushSize      int
	StatusMessage  string
	ImageInfo      string
	MaskInfo       string
}

// GetViewState returns the current view state
func (mv *MainView) GetViewState() ViewState {
	return ViewState{
		HasSourceImage: mv.paintCanvas.HasSource(),
		HasMaskPreview: mv.previews.HasMask(),
		BrushSize:      mv.brush.Size(),
		StatusMessage:  mv.statusBar.GetStatus(),
		ImageInfo:      mv.statusBar.GetImageInfo(),
		MaskInfo:       mv.statusBar.GetMaskInfo(),
	}
}
