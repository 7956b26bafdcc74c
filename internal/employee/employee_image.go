package employee

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	employeeerrors "go-hris-admin/internal/employee/errors"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes bounds a staged photo. The backend accepts up to 5 MiB.
const MaxImageBytes = 2 << 20

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is a photo staged in the form, uploaded after the employee is saved.
type Image struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StageImage checks size and sniffed content type. The declared extension is
// not trusted.
func StageImage(filename string, content []byte) (Image, error) {
	if len(content) > MaxImageBytes {
		return Image{}, employeeerrors.ErrImageTooLarge
	}
	mt := mimetype.Detect(content)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, employeeerrors.ErrNotAnImage
	}
	if !imageTypes[mt.String()] {
		return Image{}, employeeerrors.ErrUnsupportedImageType
	}
	return Image{
		Filename:    filepath.Base(filename),
		ContentType: mt.String(),
		Content:     content,
	}, nil
}

// LoadImage stages the file at path without reading more than the limit.
func LoadImage(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	return StageImage(path, content)
}
