package models

import (
	"sync"

	"inpaint-masker/internal/config"
)

// EditorState holds the per-window editor state: the source image, the brush size
// and the last exported mask.
type EditorState struct {
	mu        sync.RWMutex
	source    *SourceImage
	mask      *MaskImage
	brushSize int
}

// NewEditorState creates an empty editor state with the given brush size.
func NewEditorState(brushSize int) *EditorState {
	return &EditorState{brushSize: config.ClampBrushSize(brushSize)}
}

// SetSource replaces the source image and drops any mask derived from the old one.
func (s *EditorState) SetSource(img *SourceImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = img
	s.mask = nil
}

// Source returns the current source image, or nil.
func (s *EditorState) Source() *SourceImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// SetBrushSize stores the clamped brush size and returns it.
func (s *EditorState) SetBrushSize(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brushSize = config.ClampBrushSize(n)
	return s.brushSize
}

// BrushSize returns the brush diameter for new strokes.
func (s *EditorState) BrushSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brushSize
}

// BrushRadius is half the brush size, the radius strokes are drawn with.
func (s *EditorState) BrushRadius() float64 {
	return float64(s.BrushSize()) / 2
}

func (s *EditorState) SetMask(m *MaskImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mask = m
}

func (s *EditorState) ClearMask() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mask = nil
}

func (s *EditorState) Mask() *MaskImage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mask
}

// Reset drops the source image and mask. The brush size is kept.
func (s *EditorState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = nil
	s.mask = nil
}
