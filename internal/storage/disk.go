// Package storage saves uploaded images on disk under unique names.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps every image upload at 5 MB.
const MaxUploadSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ErrInvalidFileType rejects anything that is not a jpeg, png or gif.
var ErrInvalidFileType = fmt.Errorf("invalid file type, only jpeg, png and gif are allowed")

// DiskStore writes files under dir and hands back URLs below urlPrefix.
type DiskStore struct {
	dir       string
	urlPrefix string
}

func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &DiskStore{dir: dir, urlPrefix: urlPrefix}, nil
}

// Save stores the file under a fresh uuid-based name and returns its relative
// URL.
func (s *DiskStore) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrInvalidFileType
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}

// Dir is the directory files are written to, for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}
