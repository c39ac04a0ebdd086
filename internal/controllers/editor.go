package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"inpaint-masker/internal/logger"
	"inpaint-masker/internal/models"
	"inpaint-masker/internal/services"
)

const component = "EditorController"

const (
	MsgUploadSuccess = "Image uploaded successfully"
	MsgUploadFailed  = "Failed to load image"
	MsgCleared       = "Canvas cleared"
	MsgExportSuccess = "Mask exported successfully"
	MsgExportFailed  = "Failed to export mask"
)

// ErrNoImage is returned by Export before any image has been uploaded.
var ErrNoImage = errors.New("no image loaded")

// Surface is the drawing surface as seen by the controller.
type Surface interface {
	Clear()
	SetBrushRadius(radius float64)
	SetReady(ready bool)
	Snapshot() (*image.RGBA, error)
	Size() (int, int)
}

type NotificationLevel int

const (
	NotifySuccess NotificationLevel = iota
	NotifyError
)

// Notification is a short user-facing message.
type Notification struct {
	Level   NotificationLevel
	Message string
	Err     error
}

// EditorView receives state changes from the controller. Implementations marshal
// onto the UI goroutine themselves.
type EditorView interface {
	SetSourceImage(img *models.SourceImage)
	SetMaskImage(m *models.MaskImage)
	SetBrushSize(size int)
	RefreshCanvas()
	Notify(n Notification)
}

// EditorState is a read-only view of the controller state.
type EditorState struct {
	HasImage     bool
	HasMask      bool
	BrushSize    int
	CanvasWidth  int
	CanvasHeight int
}

// EditorController orchestrates upload, brush, clear and export against the
// drawing surface.
type EditorController struct {
	imageService *services.ImageService
	maskService  *services.MaskService
	state        *models.EditorState
	surface      Surface
	logger       logger.Logger

	mu        sync.Mutex
	view      EditorView
	deliverer services.Deliverer
	// generation changes whenever the surface is reset, so an export that
	// finishes after a clear or upload does not store a stale mask.
	generation uint64
}

// NewEditorController creates the controller and applies the initial brush size
// to the surface.
func NewEditorController(
	imageService *services.ImageService,
	maskService *services.MaskService,
	state *models.EditorState,
	surface Surface,
	log logger.Logger,
) *EditorController {
	ec := &EditorController{
		imageService: imageService,
		maskService:  maskService,
		state:        state,
		surface:      surface,
		logger:       log,
	}
	surface.SetBrushRadius(state.BrushRadius())
	return ec
}

// SetView associates the view with this controller
func (ec *EditorController) SetView(view EditorView) {
	ec.mu.Lock()
	ec.view = view
	ec.mu.Unlock()

	if view != nil {
		view.SetBrushSize(ec.state.BrushSize())
	}
}

// SetDeliverer sets where exported masks are sent.
func (ec *EditorController) SetDeliverer(d services.Deliverer) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.deliverer = d
}

// UploadImage decodes the upload and makes it the new source image. A nil upload
// means the picker was dismissed and is ignored.
func (ec *EditorController) UploadImage(ctx context.Context, upload *services.Upload) error {
	if upload == nil {
		return nil
	}

	source, err := ec.imageService.LoadImage(ctx, upload)
	if err != nil {
		ec.fail(MsgUploadFailed, err, map[string]interface{}{"file": upload.Name})
		return err
	}

	ec.mu.Lock()
	ec.state.SetSource(source)
	ec.surface.Clear()
	ec.surface.SetReady(true)
	ec.generation++
	view := ec.view
	ec.mu.Unlock()

	ec.logger.Info(component, "image uploaded", map[string]interface{}{
		"id":     source.ID,
		"file":   source.Name,
		"width":  source.Width,
		"height": source.Height,
	})

	if view != nil {
		view.SetSourceImage(source)
		view.SetMaskImage(nil)
		view.RefreshCanvas()
	}
	ec.notify(Notification{Level: NotifySuccess, Message: MsgUploadSuccess})
	return nil
}

// SetBrushSize clamps size to the allowed range, applies it to future strokes and
// returns the effective size.
func (ec *EditorController) SetBrushSize(size int) int {
	effective := ec.state.SetBrushSize(size)
	ec.surface.SetBrushRadius(ec.state.BrushRadius())

	if effective != size {
		ec.logger.Debug(component, "brush size clamped", map[string]interface{}{
			"requested": size,
			"effective": effective,
		})
	}
	return effective
}

// Clear empties the drawing surface and drops the mask.
func (ec *EditorController) Clear() {
	ec.mu.Lock()
	ec.surface.Clear()
	ec.state.ClearMask()
	ec.generation++
	view := ec.view
	ec.mu.Unlock()

	ec.logger.Debug(component, "canvas cleared", nil)

	if view != nil {
		view.SetMaskImage(nil)
		view.RefreshCanvas()
	}
	ec.notify(Notification{Level: NotifySuccess, Message: MsgCleared})
}

// Export extracts the mask from the surface and delivers it as mask.png. The mask
// is stored only once delivery succeeds; any failure leaves the state untouched.
func (ec *EditorController) Export(ctx context.Context) error {
	ec.mu.Lock()
	deliverer := ec.deliverer
	generation := ec.generation
	result, err := ec.buildMask(ctx)
	ec.mu.Unlock()

	if err != nil {
		ec.fail(MsgExportFailed, err, nil)
		return err
	}

	if deliverer == nil {
		err := fmt.Errorf("no output configured for %s", result.FileName)
		ec.fail(MsgExportFailed, err, nil)
		return err
	}

	if err := deliverer.Deliver(ctx, result.FileName, result.PNG); err != nil {
		if errors.Is(err, services.ErrDeliveryCancelled) {
			ec.logger.Info(component, "export cancelled by user", nil)
			return nil
		}
		ec.fail(MsgExportFailed, err, map[string]interface{}{"file": result.FileName})
		return err
	}

	ec.mu.Lock()
	current := ec.generation == generation
	if current {
		ec.state.SetMask(result)
	}
	view := ec.view
	ec.mu.Unlock()

	w, h := result.Size()
	ec.logger.Info(component, "mask exported", map[string]interface{}{
		"file":    result.FileName,
		"width":   w,
		"height":  h,
		"backend": result.Backend,
		"stale":   !current,
	})

	if view != nil && current {
		view.SetMaskImage(result)
	}
	ec.notify(Notification{Level: NotifySuccess, Message: MsgExportSuccess})
	return nil
}

func (ec *EditorController) buildMask(ctx context.Context) (*models.MaskImage, error) {
	if ec.state.Source() == nil {
		return nil, ErrNoImage
	}

	layer, err := ec.surface.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read drawing surface: %w", err)
	}

	result, err := ec.maskService.BuildMask(ctx, layer)
	if err != nil {
		return nil, err
	}

	mw, mh := result.Size()
	if sw, sh := ec.surface.Size(); mw != sw || mh != sh {
		return nil, fmt.Errorf("mask size %dx%d does not match canvas %dx%d", mw, mh, sw, sh)
	}
	return result, nil
}

// State returns the current editor state.
func (ec *EditorController) State() EditorState {
	w, h := ec.surface.Size()
	return EditorState{
		HasImage:     ec.state.Source() != nil,
		HasMask:      ec.state.Mask() != nil,
		BrushSize:    ec.state.BrushSize(),
		CanvasWidth:  w,
		CanvasHeight: h,
	}
}

// Shutdown drops all editor state when the window goes away.
func (ec *EditorController) Shutdown() {
	ec.mu.Lock()
	defer ec.mu.Unlock()

	ec.state.Reset()
	ec.surface.Clear()
	ec.surface.SetReady(false)
	ec.generation++
	ec.view = nil
	ec.logger.Debug(component, "editor state released", nil)
}

func (ec *EditorController) fail(message string, err error, fields map[string]interface{}) {
	ec.logger.Error(component, message, err, fields)
	ec.notify(Notification{Level: NotifyError, Message: message, Err: err})
}

func (ec *EditorController) notify(n Notification) {
	ec.mu.Lock()
	view := ec.view
	ec.mu.Unlock()

	if view != nil {
		view.Notify(n)
	}
}
