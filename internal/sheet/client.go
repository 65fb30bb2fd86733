// Package sheet fetches the published recipe spreadsheet as CSV and decodes
// it into a recipe collection.
package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/recipebox/internal/recipe"
)

const (
	defaultTimeout = 15 * time.Second
	maxSheetBytes  = 32 << 20
)

var errSheetTooLarge = fmt.Errorf("sheet exceeds %d bytes", maxSheetBytes)

// Config describes where the sheet lives and how it is cached.
type Config struct {
	URL          string
	Timeout      time.Duration
	CacheEnabled bool
	CacheDir     string
	CacheTTL     time.Duration
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client fetches and decodes the recipe sheet. It satisfies browse.Loader.
type Client struct {
	url    string
	http   *http.Client
	cache  *sheetCache
	logger *zap.Logger
}

// New validates cfg and prepares the cache directory when caching is enabled.
func New(cfg Config) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("sheet url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &Client{url: url, http: httpClient, logger: logger.Named("sheet")}
	if cfg.CacheEnabled {
		cache, err := newSheetCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("prepare sheet cache: %w", err)
		}
		client.cache = cache
	}
	return client, nil
}

// URL returns the configured sheet location.
func (c *Client) URL() string { return c.url }

// Load fetches the sheet and decodes it. A body that fails to decode is
// evicted from the cache so the next load asks the server again.
func (c *Client) Load(ctx context.Context) (recipe.Collection, error) {
	started := time.Now()
	body, err := c.Fetch(ctx)
	if err != nil {
		c.logger.Warn("sheet fetch failed", zap.String("url", c.url), zap.Error(err))
		return nil, err
	}
	collection, err := recipe.Decode(bytes.NewReader(body))
	if err != nil {
		if c.cache != nil {
			c.cache.evict(c.url)
		}
		c.logger.Warn("sheet decode failed", zap.String("url", c.url), zap.Error(err))
		return nil, fmt.Errorf("decode sheet: %w", err)
	}
	c.logger.Info("recipes loaded",
		zap.Int("count", len(collection)),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(started)))
	return collection, nil
}

// Fetch returns the raw CSV body, consulting the cache first.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	var cached cacheEntry
	var haveCached bool
	if c.cache != nil {
		cached, haveCached = c.cache.lookup(c.url)
		if haveCached && c.cache.fresh(cached) {
			c.logger.Debug("sheet cache hit", zap.String("url", c.url), zap.Duration("age", cached.age))
			return cached.body, nil
		}
	}
	body, err := c.download(ctx, cached, haveCached)
	if errors.Is(err, errUnexpectedNotModified) && !haveCached {
		c.logger.Warn("sheet answered 304 without a cached copy, retrying", zap.String("url", c.url))
		body, err = c.download(ctx, cacheEntry{}, false)
	}
	return body, err
}

// errUnexpectedNotModified marks a 304 for a request that carried no validators.
var errUnexpectedNotModified = errors.New("sheet responded 304 to an unconditional request")

func (c *Client) download(ctx context.Context, cached cacheEntry, haveCached bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	if haveCached {
		if cached.meta.ETag != "" {
			req.Header.Set("If-None-Match", cached.meta.ETag)
		}
		if cached.meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", cached.meta.LastModified)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if !haveCached {
			return nil, errUnexpectedNotModified
		}
		c.logger.Debug("sheet not modified", zap.String("url", c.url))
		if err := c.cache.touch(c.url, cached.meta); err != nil {
			c.logger.Warn("sheet cache touch failed", zap.Error(err))
		}
		return cached.body, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if isHTML(resp.Header.Get("Content-Type")) {
			return nil, fmt.Errorf("sheet responded with %s instead of CSV", resp.Header.Get("Content-Type"))
		}
		body, err := readLimited(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read sheet body: %w", err)
		}
		if c.cache != nil {
			if err := c.cache.store(c.url, resp, body); err != nil {
				c.logger.Warn("sheet cache write failed", zap.Error(err))
			}
		}
		return body, nil
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheet request failed: %s (%s)", resp.Status, strings.TrimSpace(string(snippet)))
	}
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html"
}
