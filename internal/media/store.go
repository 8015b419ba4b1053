// Package media accepts uploaded image files and turns them into stable,
// addressable URLs usable as post or profile image references.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps a single uploaded image.
const MaxUploadSize = 10 << 20 // 10 MB

var (
	ErrFileTooLarge    = errors.New("file exceeds upload size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store persists uploaded file bytes and returns an addressable URL.
type Store interface {
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
}

// objectName derives a collision-resistant storage name preserving the
// original extension. Random ids rather than timestamps: two uploads in the
// same clock tick must not collide.
func objectName(originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	return uuid.New().String() + ext, nil
}
