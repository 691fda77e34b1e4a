package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

var (
	_ Persistence = (*File)(nil)
	_ Deleter     = (*File)(nil)
)

// File stores each key as one file inside a directory.
// Writes go through a temp file and rename so a crash never leaves a torn value.
type File struct {
	mu    sync.Mutex
	dir   string
	quota int64 // 0 = unlimited
}

// NewFile creates the directory if needed. quota bounds the total size of all
// values in the directory; zero disables the limit.
func NewFile(dir string, quota int64) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &File{dir: dir, quota: quota}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

// Read returns the contents of the file backing key.
func (f *File) Read(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

// Write atomically replaces the file backing key.
func (f *File) Write(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	if f.quota > 0 {
		used, err := f.usedExcept(target)
		if err != nil {
			return err
		}
		if used+int64(len(data)) > f.quota {
			return fmt.Errorf("failed to write %q (%d bytes, quota %d): %w", key, len(data), f.quota, ErrCapacityExceeded)
		}
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return classifyWriteError(key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return classifyWriteError(key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return classifyWriteError(key, err)
	}
	if err := tmp.Close(); err != nil {
		return classifyWriteError(key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return classifyWriteError(key, err)
	}
	return nil
}

// Delete removes the file backing key.
func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (f *File) usedExcept(target string) (int64, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list storage directory: %w", err)
	}
	var used int64
	for _, e := range entries {
		if e.IsDir() || filepath.Join(f.dir, e.Name()) == target {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		used += info.Size()
	}
	return used, nil
}

// classifyWriteError maps "disk full" and "quota exceeded" to ErrCapacityExceeded.
func classifyWriteError(key string, err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return fmt.Errorf("failed to write %q: %w: %w", key, ErrCapacityExceeded, err)
	}
	return fmt.Errorf("failed to write %q: %w", key, err)
}
