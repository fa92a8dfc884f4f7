package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxImageSize caps uploaded images at 5 MiB.
const MaxImageSize = 5 << 20

var ErrFileTooLarge = errors.New("file size too large")

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// SaveImage stores an uploaded image under uploads/<subdir> and returns the
// public path served by the /uploads static route. Filenames are regenerated
// so a client-supplied name never touches the filesystem.
func SaveImage(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	if file.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	dir := filepath.Join("uploads", subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return "/" + filepath.ToSlash(filepath.Join("uploads", subdir, filename)), nil
}
