package templates

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CachedLoader is a read-through cache in front of another Loader.
// Resources are treated as immutable for the process lifetime; failed
// loads are not cached.
type CachedLoader struct {
	next  Loader
	mu    sync.RWMutex
	items map[string]string
	group singleflight.Group
}

// NewCachedLoader wraps next with a cache
func NewCachedLoader(next Loader) *CachedLoader {
	return &CachedLoader{
		next:  next,
		items: make(map[string]string),
	}
}

// Load returns the cached resource or loads it once
func (c *CachedLoader) Load(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	content, ok := c.items[name]
	c.mu.RUnlock()
	if ok {
		return content, nil
	}

	// the shared load ignores cancellation; callers wait under their own ctx
	ch := c.group.DoChan(name, func() (interface{}, error) {
		content, err := c.next.Load(context.WithoutCancel(ctx), name)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.items[name] = content
		c.mu.Unlock()
		return content, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Len reports how many resources are cached
func (c *CachedLoader) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
