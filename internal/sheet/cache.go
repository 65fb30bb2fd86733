package sheet

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	bodySuffix    = ".csv"
	metaSuffix    = ".meta"
	partialSuffix = ".part"
)

type sheetCache struct {
	dir string
	ttl time.Duration
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

type cacheEntry struct {
	body []byte
	meta cacheMeta
	age  time.Duration
}

func newSheetCache(dir string, ttl time.Duration) (*sheetCache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "recipebox-cache")
		}
		dir = filepath.Join(base, "recipebox")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &sheetCache{dir: dir, ttl: ttl}, nil
}

// lookup returns the cached body for url, if any. Missing or empty bodies
// report false.
func (c *sheetCache) lookup(url string) (cacheEntry, bool) {
	bodyPath, metaPath, _ := c.pathsFor(cacheKey(url))
	info, err := os.Stat(bodyPath)
	if err != nil || info.Size() == 0 {
		return cacheEntry{}, false
	}
	body, err := os.ReadFile(bodyPath)
	if err != nil {
		return cacheEntry{}, false
	}
	meta, _ := readMeta(metaPath)
	return cacheEntry{body: body, meta: meta, age: time.Since(info.ModTime())}, true
}

func (c *sheetCache) fresh(entry cacheEntry) bool {
	return c.ttl > 0 && entry.age < c.ttl
}

// touch marks a revalidated body as fresh again.
func (c *sheetCache) touch(url string, meta cacheMeta) error {
	bodyPath, metaPath, _ := c.pathsFor(cacheKey(url))
	now := time.Now()
	if err := os.Chtimes(bodyPath, now, now); err != nil {
		return err
	}
	meta.CachedAt = now.UTC()
	return writeMeta(metaPath, meta)
}

// store writes body through a partial file so readers never see a torn copy.
// It is keyed by the requested url, not the post-redirect one.
func (c *sheetCache) store(url string, resp *http.Response, body []byte) error {
	bodyPath, metaPath, partialPath := c.pathsFor(cacheKey(url))
	if err := os.WriteFile(partialPath, body, 0o644); err != nil {
		return err
	}
	if err := os.Rename(partialPath, bodyPath); err != nil {
		return err
	}
	meta := cacheMeta{
		URL:          url,
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         int64(len(body)),
	}
	return writeMeta(metaPath, meta)
}

func (c *sheetCache) evict(url string) {
	bodyPath, metaPath, partialPath := c.pathsFor(cacheKey(url))
	for _, path := range []string{bodyPath, metaPath, partialPath} {
		_ = os.Remove(path)
	}
}

func (c *sheetCache) pathsFor(key string) (string, string, string) {
	return filepath.Join(c.dir, key+bodySuffix), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func cacheKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSheetBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSheetBytes {
		return nil, errSheetTooLarge
	}
	return data, nil
}
