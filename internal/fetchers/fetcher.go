package fetchers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"reportwidgets/internal/logger"
)

const maxParallelFeeds = 4

// DataFetcher retrieves remote template text and news feeds
type DataFetcher struct {
	client *resty.Client
	parser *gofeed.Parser
}

// NewDataFetcher creates a new data fetcher instance
func NewDataFetcher(timeout time.Duration) *DataFetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	return &DataFetcher{
		client: client,
		parser: gofeed.NewParser(),
	}
}

// WithRetries overrides the retry policy
func (f *DataFetcher) WithRetries(count int, wait time.Duration) *DataFetcher {
	f.client.SetRetryCount(count)
	f.client.SetRetryWaitTime(wait)
	return f
}

// FetchText returns the body of url. A 404 wraps fs.ErrNotExist so loaders
// can report missing resources uniformly.
func (f *DataFetcher) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return "", fmt.Errorf("GET %s returned status %d: %w", url, resp.StatusCode(), fs.ErrNotExist)
	case resp.StatusCode() != http.StatusOK:
		return "", fmt.Errorf("GET %s returned status %d", url, resp.StatusCode())
	}

	return string(resp.Body()), nil
}

// FetchFeed fetches and parses an RSS or Atom feed
func (f *DataFetcher) FetchFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	body, err := f.FetchText(ctx, url)
	if err != nil {
		return nil, err
	}

	feed, err := f.parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", url, err)
	}

	logger.Debug("Fetched feed", map[string]interface{}{
		"url":   url,
		"items": len(feed.Items),
	})
	return feed, nil
}

// FetchFeeds fetches several feeds in parallel. Feeds that fail are left
// out of the result and their errors are joined.
func (f *DataFetcher) FetchFeeds(ctx context.Context, urls []string) (map[string]*gofeed.Feed, error) {
	var (
		mu     sync.Mutex
		result = make(map[string]*gofeed.Feed, len(urls))
		errs   []error
		g      errgroup.Group
	)

	g.SetLimit(maxParallelFeeds)
	for _, url := range urls {
		url := url
		g.Go(func() error {
			feed, err := f.FetchFeed(ctx, url)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			result[url] = feed
			return nil
		})
	}
	g.Wait()

	return result, errors.Join(errs...)
}
