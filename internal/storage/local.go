// Package storage persists uploaded files on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps accepted uploads at 5 MiB.
const MaxUploadSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Local stores files under a base directory with randomized names so
// uploads can never collide or traverse outside the directory.
type Local struct {
	BaseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Local{BaseDir: baseDir}, nil
}

// Store writes content to a new file named by a random UUID, keeping only
// the extension of the suggested name. Returns the stored path.
func (l *Local) Store(content []byte, suggestedName string) (string, error) {
	if len(content) > MaxUploadSize {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes", MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(suggestedName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %q not allowed", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(l.BaseDir, name)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (l *Local) Remove(path string) error {
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(l.BaseDir)) {
		return fmt.Errorf("path %q is outside the upload directory", path)
	}
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
