package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"

	"reportwidgets/internal/logger"
	"reportwidgets/internal/storage"
)

const defaultReportName = "report"

// Publisher stores assembled reports in a storage backend
type Publisher struct {
	store storage.StorageClient
}

// NewPublisher creates a publisher writing to store
func NewPublisher(store storage.StorageClient) *Publisher {
	return &Publisher{store: store}
}

// Publish stores page as index.html in a timestamped folder named after the
// report and returns the folder path.
func (p *Publisher) Publish(ctx context.Context, name, page string, ts time.Time) (string, error) {
	folder := storage.GenerateReportFolderPath(ts.UTC(), Slug(name))
	filePath := folder + "/" + storage.ReportIndex

	if err := p.store.StoreFile(ctx, filePath, []byte(page)); err != nil {
		return "", fmt.Errorf("failed to publish report %s: %w", name, err)
	}

	logger.Info("Report published", map[string]interface{}{
		"folder": folder,
		"bytes":  len(page),
	})
	return folder, nil
}

// Slug converts a report name into a folder-safe lowercase ASCII name,
// transliterating non-Latin scripts
func Slug(name string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return defaultReportName
}
