package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PublicUploadPrefix is the URL prefix under which locally stored images
// are served as static files.
const PublicUploadPrefix = "/uploads"

type localStorage struct {
	baseDir string
}

// NewLocalStorage creates a disk-backed ImageStorage rooted at baseDir.
// References have the form "/uploads/<generated-filename>".
func NewLocalStorage(baseDir string) (ImageStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", baseDir, err)
	}
	return &localStorage{baseDir: baseDir}, nil
}

func (s *localStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFileName(fileName))

	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return PublicUploadPrefix + "/" + name, nil
}

func (s *localStorage) DeleteImage(ctx context.Context, fileURL string) error {
	if !strings.HasPrefix(fileURL, PublicUploadPrefix+"/") {
		return fmt.Errorf("not a local upload reference: %s", fileURL)
	}

	// Base() also refuses path traversal out of the upload directory.
	name := filepath.Base(strings.TrimPrefix(fileURL, PublicUploadPrefix+"/"))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("not a local upload reference: %s", fileURL)
	}

	err := os.Remove(filepath.Join(s.baseDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
