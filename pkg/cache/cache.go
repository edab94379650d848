package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache stores JSON-encoded result pages under a namespace generation.
// Invalidate moves the namespace to the next generation, so a page computed
// before a write is stored under a key no reader asks for again and expires
// with its TTL.
type PageCache struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

func NewPageCache(rdb *redis.Client, namespace string, ttl time.Duration) *PageCache {
	return &PageCache{rdb: rdb, namespace: namespace, ttl: ttl}
}

// Key derives a stable key from any JSON-encodable query description and
// the current namespace generation.
func (c *PageCache) Key(ctx context.Context, query interface{}) (string, error) {
	data, err := json.Marshal(query)
	if err != nil {
		return "", err
	}
	gen, err := c.rdb.Get(ctx, c.generationKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return pageKey(c.namespace, gen, data), nil
}

func (c *PageCache) generationKey() string {
	return c.namespace + ":gen"
}

func pageKey(namespace string, gen int64, query []byte) string {
	return fmt.Sprintf("%s:list:%d:%x", namespace, gen, md5.Sum(query))
}

// Get decodes a cached page into dest and reports whether it was found.
func (c *PageCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *PageCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate starts a new generation. Pages of older generations are never
// read again.
func (c *PageCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.generationKey()).Err()
}
