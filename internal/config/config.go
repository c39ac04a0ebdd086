// Package config manages application configuration.
package config

import "strings"

const (
	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600

	MinBrushSize     = 1
	MaxBrushSize     = 50
	DefaultBrushSize = 20

	// DefaultMaxImagePixels bounds width*height of an upload before it is decoded.
	DefaultMaxImagePixels = 40_000_000

	BackendGo     = "go"
	BackendOpenCV = "opencv"
)

// Config represents the application configuration.
type Config struct {
	Canvas        CanvasConfig `yaml:"canvas"`
	Brush         BrushConfig  `yaml:"brush"`
	OutputDir     string       `yaml:"output_dir,omitempty"` // write mask.png here instead of asking
	MaskBackend   string       `yaml:"mask_backend"`
	LogLevel      string       `yaml:"log_level"`
	LogFile       string       `yaml:"log_file,omitempty"`
	Notifications bool         `yaml:"desktop_notifications"`
	MaxPixels     int          `yaml:"max_image_pixels"`
}

// CanvasConfig is the initial drawing canvas size. The width follows the window
// once it is shown; the height stays fixed.
type CanvasConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BrushConfig holds the brush diameter used for new strokes.
type BrushConfig struct {
	Size int `yaml:"size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:  DefaultCanvasWidth,
			Height: DefaultCanvasHeight,
		},
		Brush: BrushConfig{
			Size: DefaultBrushSize,
		},
		MaskBackend: BackendGo,
		LogLevel:    "info",
		MaxPixels:   DefaultMaxImagePixels,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 {
		c.Canvas.Width = DefaultCanvasWidth
	}
	if c.Canvas.Height <= 0 {
		c.Canvas.Height = DefaultCanvasHeight
	}
	c.Brush.Size = ClampBrushSize(c.Brush.Size)
	if c.MaxPixels <= 0 {
		c.MaxPixels = DefaultMaxImagePixels
	}

	c.MaskBackend = strings.ToLower(strings.TrimSpace(c.MaskBackend))
	if c.MaskBackend == "" {
		c.MaskBackend = BackendGo
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

// ClampBrushSize clamps n to [MinBrushSize, MaxBrushSize].
func ClampBrushSize(n int) int {
	if n < MinBrushSize {
		return MinBrushSize
	}
	if n > MaxBrushSize {
		return MaxBrushSize
	}
	return n
}
