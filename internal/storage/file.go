package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// slotNameRegex restricts slot keys to names that are safe as file names.
var slotNameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileBackend stores each slot as a file in a directory.
type FileBackend struct {
	dir string
}

// NewFileBackend returns a FileBackend rooted at dir, creating dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create slot directory %s: %w", dir, err)
	}
	return &FileBackend{dir: dir}, nil
}

// Dir returns the directory holding the slot files.
func (b *FileBackend) Dir() string {
	return b.dir
}

func (b *FileBackend) path(key string) (string, error) {
	if !slotNameRegex.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid slot name %q", key)
	}
	return filepath.Join(b.dir, key), nil
}

func (b *FileBackend) Get(key string) (string, bool, error) {
	path, err := b.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes the slot through a temporary file and a rename so readers never
// observe a partially written value.
func (b *FileBackend) Set(key, value string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.dir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for slot %s: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close slot %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace slot %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) Delete(key string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (b *FileBackend) Close() error { return nil }
