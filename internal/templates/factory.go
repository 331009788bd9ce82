package templates

import (
	"fmt"

	"reportwidgets/internal/config"
	"reportwidgets/internal/logger"
)

// NewLoader builds the loader described by cfg: a remote base URL wins over
// a local directory, which wins over the embedded resources.
func NewLoader(cfg *config.Config, fetcher TextFetcher) (Loader, error) {
	var (
		loader Loader
		source string
	)

	switch {
	case cfg.TemplatesURL != "":
		httpLoader, err := NewHTTPLoader(cfg.TemplatesURL, fetcher)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize HTTP template loader: %w", err)
		}
		loader, source = httpLoader, cfg.TemplatesURL
	case cfg.TemplatesDir != "":
		loader, source = NewDirLoader(cfg.TemplatesDir), cfg.TemplatesDir
	default:
		loader, source = Default(), "embedded"
	}

	if cfg.CacheTemplates {
		loader = NewCachedLoader(loader)
	}

	logger.Debug("Template loader ready", map[string]interface{}{
		"source": source,
		"cached": cfg.CacheTemplates,
	})
	return loader, nil
}
