package templates

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// TextFetcher retrieves the body of a URL as text
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPLoader resolves resource names against a base URL
type HTTPLoader struct {
	baseURL string
	fetcher TextFetcher
}

// NewHTTPLoader creates a loader fetching resources below baseURL
func NewHTTPLoader(baseURL string, fetcher TextFetcher) (*HTTPLoader, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid templates URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported templates URL scheme %q", u.Scheme)
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	return &HTTPLoader{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		fetcher: fetcher,
	}, nil
}

// Load fetches baseURL/name. The fetcher maps 404 to fs.ErrNotExist.
func (l *HTTPLoader) Load(ctx context.Context, name string) (string, error) {
	segments := strings.Split(strings.TrimPrefix(name, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	target := l.baseURL + "/" + strings.Join(segments, "/")
	content, err := l.fetcher.FetchText(ctx, target)
	if err != nil {
		return "", fmt.Errorf("failed to load resource %s: %w", name, err)
	}
	return content, nil
}
