package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      any
	ExpiresAt time.Time
}

// RenderCache is a size-bounded LRU whose entries also expire after a TTL.
// Safe for concurrent use.
type RenderCache struct {
	lruCache *lru.Cache[string, CacheItem]
	now      func() time.Time
}

func NewRenderCache(size int) (*RenderCache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, err
	}
	return &RenderCache{lruCache: l, now: time.Now}, nil
}

// Set 设置缓存，TTL 为过期时间
func (c *RenderCache) Set(key string, data any, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *RenderCache) Get(key string) any {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

func (c *RenderCache) Delete(key string) {
	c.lruCache.Remove(key)
}
