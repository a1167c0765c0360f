package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// LocalCache is an in-process cache bounded by total value size.
type LocalCache struct {
	store *ristretto.Cache[string, []byte]
}

// NewLocalCache sizes the cache to maxBytes of values.
func NewLocalCache(maxBytes int64) (*LocalCache, error) {
	if maxBytes <= 0 {
		maxBytes = 16 << 20
	}
	store, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("local cache: %w", err)
	}
	return &LocalCache{store: store}, nil
}

func (c *LocalCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	return v, ok, nil
}

// Set waits for the write buffer so a following Get observes the value.
func (c *LocalCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.store.SetWithTTL(key, value, int64(len(value)), ttl)
	c.store.Wait()
	return nil
}

func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.store.Del(key)
	return nil
}

func (c *LocalCache) Close() error {
	c.store.Close()
	return nil
}
