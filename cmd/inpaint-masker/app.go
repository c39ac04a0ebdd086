package main

import (
	"context"
	"fmt"
	"runtime"

	"inpaint-masker/internal/config"
	"inpaint-masker/internal/controllers"
	"inpaint-masker/internal/logger"
	"inpaint-masker/internal/mask"
	"inpaint-masker/internal/models"
	"inpaint-masker/internal/services"
	"inpaint-masker/internal/shutdown"
	"inpaint-masker/internal/surface"
	"inpaint-masker/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

// Application wires the window, view, controller and services together.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	controller *controllers.EditorController
	view       *views.MainView

	shutdown *shutdown.Manager
}

// NewApplication creates and initializes the application using dependency injection
func NewApplication(cfg *config.Config, log logger.Logger) (*Application, error) {
	extractor, err := mask.NewExtractor(cfg.MaskBackend)
	if err != nil {
		return nil, err
	}

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)

	log.Info("Main", "application starting", map[string]interface{}{
		"version":      AppVersion,
		"go_version":   runtime.Version(),
		"canvas":       fmt.Sprintf("%dx%d", cfg.Canvas.Width, cfg.Canvas.Height),
		"brush_size":   cfg.Brush.Size,
		"mask_backend": extractor.Name(),
		"output_dir":   cfg.OutputDir,
		"max_pixels":   cfg.MaxPixels,
	})

	state := models.NewEditorState(cfg.Brush.Size)
	surf := surface.New(cfg.Canvas.Width, cfg.Canvas.Height, state.BrushRadius())

	imageService := services.NewImageService(log)
	imageService.SetMaxPixels(cfg.MaxPixels)
	maskService := services.NewMaskService(extractor, log)

	controller := controllers.NewEditorController(imageService, maskService, state, surf, log)
	view := views.NewMainView(window, surf, views.Options{
		Logger:               log,
		AppName:              AppName,
		BrushSize:            state.BrushSize(),
		DesktopNotifications: cfg.Notifications,
	})

	a := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		config:     cfg,
		controller: controller,
		view:       view,
		shutdown:   shutdown.NewManager(log),
	}

	a.wire()
	a.setupWindowEvents()

	return a, nil
}

func (a *Application) wire() {
	a.controller.SetView(a.view)

	if a.config.OutputDir != "" {
		a.controller.SetDeliverer(services.NewDirDeliverer(a.config.OutputDir))
	} else {
		a.controller.SetDeliverer(a.view)
	}

	ctx := a.shutdown.Context()
	a.view.SetUploadHandler(func(upload *services.Upload) {
		a.controller.UploadImage(ctx, upload)
	})
	a.view.SetClearHandler(a.controller.Clear)
	a.view.SetExportHandler(func() {
		a.controller.Export(ctx)
	})
	a.view.SetBrushSizeHandler(a.controller.SetBrushSize)

	a.shutdown.Register("controller", a.controller)
}

func (a *Application) setupWindowEvents() {
	a.window.Resize(fyne.NewSize(float32(a.config.Canvas.Width)+40, float32(a.config.Canvas.Height)+360))
	a.window.CenterOnScreen()
	a.window.SetMaster()

	a.window.SetCloseIntercept(func() {
		if !a.controller.State().HasImage {
			a.window.Close()
			return
		}
		dialog.ShowConfirm("Exit", "Discard the current mask and exit?", func(confirmed bool) {
			if confirmed {
				a.window.Close()
			}
		}, a.window)
	})

	a.window.SetOnClosed(func() {
		a.logger.Info("Main", "window closed", nil)
		a.shutdown.Shutdown()
	})
}

// Run shows the window and blocks until the application quits.
func (a *Application) Run(ctx context.Context) error {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	go func() {
		select {
		case <-ctx.Done():
			a.logger.Info("Main", "context cancelled, quitting", nil)
			fyne.Do(a.fyneApp.Quit)
		case <-a.shutdown.Done():
		}
	}()

	a.window.ShowAndRun()
	a.shutdown.Shutdown()

	a.logger.Info("Main", "application terminated", nil)
	return nil
}
