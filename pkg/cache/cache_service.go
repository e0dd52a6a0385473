package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 键不存在或已过期
var ErrCacheMiss = errors.New("cache miss")

// CacheService 缓存服务接口
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	InvalidatePattern(ctx context.Context, pattern string) error
}

// RedisCache Redis 缓存实现
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache 创建 Redis 缓存服务
func NewRedisCache(client *redis.Client, prefix string) CacheService {
	if prefix == "" {
		prefix = "ecommerce:"
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// getKey 获取完整的缓存键
func (c *RedisCache) getKey(key string) string {
	return c.prefix + key
}

// Get 获取缓存
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.client.Get(ctx, c.getKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return errors.Wrap(err, "cache get")
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return errors.Wrap(err, "cache unmarshal")
	}
	return nil
}

// Set 设置缓存
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache marshal")
	}

	if err := c.client.Set(ctx, c.getKey(key), data, expiration).Err(); err != nil {
		return errors.Wrap(err, "cache set")
	}
	return nil
}

// Delete 删除缓存
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = c.getKey(key)
	}
	return c.client.Del(ctx, fullKeys...).Err()
}

// Exists 检查缓存是否存在
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.client.Exists(ctx, c.getKey(key)).Result()
	return result > 0, err
}

// InvalidatePattern 根据模式批量删除缓存，使用 SCAN 避免阻塞
func (c *RedisCache) InvalidatePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, c.prefix+pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "cache scan")
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

// MemoryCache 内存缓存实现（未启用 Redis 时及测试使用）
type MemoryCache struct {
	data map[string]*cacheItem
	mu   sync.RWMutex
	now  func() time.Time
}

type cacheItem struct {
	value      []byte
	expiration time.Time
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() CacheService {
	return newMemoryCache(time.Now)
}

func newMemoryCache(now func() time.Time) *MemoryCache {
	return &MemoryCache{
		data: make(map[string]*cacheItem),
		now:  now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	item, exists := c.data[key]
	c.mu.RUnlock()

	if !exists || c.expired(item) {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(item.value, dest); err != nil {
		return errors.Wrap(err, "cache unmarshal")
	}
	return nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache marshal")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem{value: data}
	if expiration > 0 {
		item.expiration = c.now().Add(expiration)
	}
	c.data[key] = item

	// 清理过期项
	c.cleanup()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	item, exists := c.data[key]
	c.mu.RUnlock()

	return exists && !c.expired(item), nil
}

func (c *MemoryCache) InvalidatePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.data {
		if matched, _ := filepath.Match(pattern, key); matched {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *MemoryCache) expired(item *cacheItem) bool {
	return !item.expiration.IsZero() && c.now().After(item.expiration)
}

func (c *MemoryCache) cleanup() {
	for key, item := range c.data {
		if c.expired(item) {
			delete(c.data, key)
		}
	}
}
