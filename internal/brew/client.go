package brew

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of package entries kept by a Client.
const DefaultCacheSize = 128

// ClientConfig tunes a Client.
type ClientConfig struct {
	// CacheSize bounds the package detail cache; 0 uses DefaultCacheSize.
	CacheSize int
	// Prefix overrides `brew --prefix`.
	Prefix string
	// Timeout bounds each brew invocation; 0 means no limit.
	Timeout time.Duration
}

// Client runs the Homebrew operations brewdesk needs and caches package
// details between calls. It is safe for concurrent use.
type Client struct {
	runner  Runner
	cache   *lru.Cache[string, *PackageEntry]
	timeout time.Duration

	mu     sync.Mutex
	prefix string
}

// NewClient returns a Client that invokes brew through runner.
func NewClient(runner Runner, cfg ClientConfig) (*Client, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, *PackageEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create package cache: %w", err)
	}
	return &Client{
		runner:  runner,
		cache:   cache,
		timeout: cfg.Timeout,
		prefix:  cfg.Prefix,
	}, nil
}

// Prefix returns the Homebrew installation prefix, asking brew once.
func (c *Client) Prefix(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prefix != "" {
		return c.prefix, nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	out, err := c.runner.Output(ctx, "--prefix")
	if err != nil {
		return "", fmt.Errorf("brew --prefix failed: %w", err)
	}
	c.prefix = strings.TrimSpace(string(out))
	return c.prefix, nil
}

// Invalidate drops a cached entry so the next Info call asks brew again.
func (c *Client) Invalidate(name string) {
	c.cache.Remove(name)
}

// Purge drops every cached entry.
func (c *Client) Purge() {
	c.cache.Purge()
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
