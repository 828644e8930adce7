// Package cache memoises rendered markup keyed by request hash.
//
// Rendering itself is cheap and pure; the cache exists for hosts (the preview
// server, batch renders) that see the same content over and over.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/quill/pkg/api"
)

// Store is a content-addressed markup store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, html string) error
	Stats(ctx context.Context) (api.CacheStats, error)
	Purge(ctx context.Context) (int64, error)
}

var ErrNotFound = errors.New("not found")

// Open returns a Store for a DSN: sqlite://<path> or mem://.
// maxEntries bounds the in-memory store; it is ignored by sqlite.
func Open(ctx context.Context, dsn string, maxEntries int) (Store, io.Closer, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return openSQLite(ctx, dsn)
	case dsn == "mem://" || dsn == "mem":
		return newMemStore(maxEntries), io.NopCloser(nil), nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache dsn %q", dsn)
	}
}
