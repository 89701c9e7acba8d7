package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Render is one cached render result.
type Render struct {
	Key       string
	HTML      string
	CreatedAt time.Time
	Hits      int64
}

// Stats summarizes cache contents.
type Stats struct {
	Entries int64
	Hits    int64
}

// Cache stores rendered HTML keyed by a digest of the source and the
// options it was rendered with.
type Cache interface {
	Get(ctx context.Context, key string) (Render, error)
	Put(ctx context.Context, r Render) error
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

var ErrNotFound = errors.New("not found")

// DefaultMaxEntries bounds a cache when no limit is configured.
const DefaultMaxEntries = 1000

// Open returns a Cache for url: sqlite://<path> or mem://.
func Open(ctx context.Context, url string, maxEntries int) (Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return openSQLite(ctx, url, maxEntries)
	case url == "" || strings.HasPrefix(url, "mem://"):
		return newMemCache(maxEntries), nil
	}
	return nil, fmt.Errorf("unsupported cache url %q", url)
}
