package storage

import (
	"context"
	"fmt"
	"strings"

	"reportwidgets/internal/config"
)

// NewStorageClient creates a storage client for the configured backend
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	switch strings.ToLower(cfg.StorageBackend) {
	case config.StorageLocal, "":
		localClient, err := NewLocalStorageClient(cfg.LocalReportsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case config.StorageGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
