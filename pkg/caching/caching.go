package caching

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/wordbench/internal/common"
)

// Cache is a file-based download cache with a TTL. A zero TTL means entries
// never expire.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

func (c *Cache) file(key string) string {
	return filepath.Join(c.path, common.ContentHash([]byte(key)))
}

// Get returns the cached data for key and true on a fresh hit.
func (c *Cache) Get(key string) ([]byte, bool) {
	filePath := c.file(key)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data under key. The write goes through a temp file so a
// crashed run never leaves a truncated entry behind.
func (c *Cache) Set(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.path, "partial-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.file(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// GetOrFetch returns the cached entry for key, or calls fetch and caches its
// result. A cache write failure does not fail the call.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if data, ok := c.Get(key); ok {
		return data, true, nil
	}
	data, err := fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(key, data)
	return data, false, nil
}
