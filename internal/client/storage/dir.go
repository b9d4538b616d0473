package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/altronvault/altron/internal/common"
)

// DirBinding binds a vault to a directory on the local filesystem.
type DirBinding struct {
	path string
}

// NewDirBinding returns a binding for an existing directory.
func NewDirBinding(path string) (*DirBinding, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}
	return &DirBinding{path: abs}, nil
}

func (b *DirBinding) Name() string {
	return filepath.Base(b.path)
}

func (b *DirBinding) Ref() string {
	return b.path
}

func (b *DirBinding) FileExists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(filepath.Join(b.path, name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", name, err)
}

func (b *DirBinding) ReadFile(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.path, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, common.ErrorPermission
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (b *DirBinding) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(b.path, name), data, 0o600); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return common.ErrorPermission
		}
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Reacquire re-stats the directory. A missing or unreadable directory means
// the persisted binding can no longer be used silently.
func (b *DirBinding) Reacquire(ctx context.Context) error {
	fi, err := os.Stat(b.path)
	if err != nil || !fi.IsDir() {
		return common.ErrorPermission
	}
	return nil
}
