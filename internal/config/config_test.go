package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 800, cfg.Canvas.Width)
	assert.Equal(t, 600, cfg.Canvas.Height)
	assert.Equal(t, 20, cfg.Brush.Size)
	assert.Equal(t, BackendGo, cfg.MaskBackend)
	assert.Empty(t, cfg.OutputDir)
}

func TestClampBrushSize(t *testing.T) {
	assert.Equal(t, 1, ClampBrushSize(0))
	assert.Equal(t, 1, ClampBrushSize(-7))
	assert.Equal(t, 1, ClampBrushSize(1))
	assert.Equal(t, 25, ClampBrushSize(25))
	assert.Equal(t, 50, ClampBrushSize(50))
	assert.Equal(t, 50, ClampBrushSize(51))
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{
		Canvas:      CanvasConfig{Width: -1, Height: 0},
		Brush:       BrushConfig{Size: 99},
		MaskBackend: " OpenCV ",
	}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultCanvasWidth, cfg.Canvas.Width)
	assert.Equal(t, DefaultCanvasHeight, cfg.Canvas.Height)
	assert.Equal(t, MaxBrushSize, cfg.Brush.Size)
	assert.Equal(t, BackendOpenCV, cfg.MaskBackend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultMaxImagePixels, cfg.MaxPixels)
}

func TestLoader_MissingFileReturnsDefaults(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, loader.Exists())
}

func TestLoader_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", "config.yaml")
	loader := NewLoaderWithPath(configPath)

	cfg := DefaultConfig()
	cfg.Brush.Size = 35
	cfg.OutputDir = "/tmp/masks"
	require.NoError(t, loader.Save(cfg))
	assert.True(t, loader.Exists())

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 35, loaded.Brush.Size)
	assert.Equal(t, "/tmp/masks", loaded.OutputDir)
	assert.Equal(t, 600, loaded.Canvas.Height)
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("brush:\n  size: 0\n"), 0644))

	cfg, err := NewLoaderWithPath(configPath).Load()
	require.NoError(t, err)
	assert.Equal(t, MinBrushSize, cfg.Brush.Size)
	assert.Equal(t, 800, cfg.Canvas.Width)
}

func TestLoader_ExpandsEnvVars(t *testing.T) {
	t.Setenv("MASK_OUT", "/srv/masks")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "output_dir: ${MASK_OUT}\nlog_file: ${UNSET_MASKER_VAR}\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := NewLoaderWithPath(configPath).Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/masks", cfg.OutputDir)
	assert.Equal(t, "${UNSET_MASKER_VAR}", cfg.LogFile)
}

func TestLoader_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("canvas: [unclosed"), 0644))

	_, err := NewLoaderWithPath(configPath).Load()
	assert.Error(t, err)
}
