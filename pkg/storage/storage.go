package storage

import (
	"context"
	"io"
)

// ImageStorage defines the contract for image storage providers.
type ImageStorage interface {
	// UploadImage stores image bytes from reader and returns a reference
	// (a local /uploads path or a remote URL depending on the driver).
	// folder is an optional logical folder within the store.
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage removes a previously stored image by its reference.
	// Deleting a reference that no longer exists is not an error.
	DeleteImage(ctx context.Context, fileURL string) error
}
