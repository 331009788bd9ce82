package storage

import (
	"context"
)

// StorageClient defines the interface for basic report storage operations.
// Paths are slash-separated and relative to the storage root.
type StorageClient interface {
	// Close closes the storage client
	Close() error

	// StoreFile stores a file at the specified path
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path. Missing files
	// return an error wrapping fs.ErrNotExist.
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListReports lists report index pages, newest first
	ListReports(ctx context.Context, limit int) ([]string, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)
}
