package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fable/internal/config"
)

// RedisCache Redis 缓存封装
// 只存放可以随时重建的数据（完整分解结果），值统一 JSON 编码
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache 创建 Redis 缓存客户端
func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Set 设置缓存
func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get 获取缓存并解码到 dest，未命中返回 redis.Nil
func (c *RedisCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Close 关闭连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Client 获取原始客户端，就绪探针用它做 ping
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// 常用 key 模式
const (
	RunResultCacheKeyPrefix = "run:"
	RunResultCacheTTL       = 24 * time.Hour
)

// RunResultCacheKey 生成分解结果缓存 key
func RunResultCacheKey(runID string) string {
	return RunResultCacheKeyPrefix + runID
}
