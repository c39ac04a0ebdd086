package services

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"inpaint-masker/internal/logger"
	"inpaint-masker/internal/mask"
	"inpaint-masker/internal/models"
)

// MaskService builds binary masks from painted layers.
type MaskService struct {
	extractor mask.Extractor
	logger    logger.Logger
}

func NewMaskService(extractor mask.Extractor, log logger.Logger) *MaskService {
	return &MaskService{extractor: extractor, logger: log}
}

// BuildMask extracts and encodes the mask for a stroke layer.
func (ms *MaskService) BuildMask(ctx context.Context, layer *image.RGBA) (*models.MaskImage, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	startTime := time.Now()

	img, err := ms.extractor.Extract(layer)
	if err != nil {
		return nil, fmt.Errorf("mask extraction failed: %w", err)
	}

	data, err := mask.EncodePNG(img)
	if err != nil {
		return nil, err
	}

	result := &models.MaskImage{
		Image:     img,
		PNG:       data,
		FileName:  mask.FileName,
		Backend:   ms.extractor.Name(),
		CreatedAt: time.Now(),
	}

	w, h := result.Size()
	ms.logger.Debug("MaskService", "mask built", map[string]interface{}{
		"backend":     result.Backend,
		"width":       w,
		"height":      h,
		"png_bytes":   len(data),
		"duration_ms": time.Since(startTime).Milliseconds(),
	})

	return result, nil
}

// ConvertLayer reads a painted layer image from r and writes its mask PNG to w.
func (ms *MaskService) ConvertLayer(ctx context.Context, r io.Reader, w io.Writer) (*models.MaskImage, error) {
	layer, err := mask.DecodeLayer(r)
	if err != nil {
		return nil, err
	}

	result, err := ms.BuildMask(ctx, layer)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(result.PNG); err != nil {
		return nil, fmt.Errorf("failed to write mask: %w", err)
	}
	return result, nil
}
