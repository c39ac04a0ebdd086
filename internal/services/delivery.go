package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDeliveryCancelled is returned when the user dismisses the save prompt.
var ErrDeliveryCancelled = errors.New("delivery cancelled")

// Deliverer hands an exported file to the user.
type Deliverer interface {
	Deliver(ctx context.Context, name string, data []byte) error
}

// DirDeliverer writes exported files into a fixed directory, replacing any
// previous file of the same name.
type DirDeliverer struct {
	Dir string
}

func NewDirDeliverer(dir string) *DirDeliverer {
	return &DirDeliverer{Dir: dir}
}

func (d *DirDeliverer) Deliver(ctx context.Context, name string, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mode on %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(d.Dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

// Path returns where a file of the given name is delivered.
func (d *DirDeliverer) Path(name string) string {
	return filepath.Join(d.Dir, name)
}
