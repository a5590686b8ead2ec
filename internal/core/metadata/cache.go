package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kitchen-companion/internal/infrastructure/config"
	"kitchen-companion/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// Cache Redis 查詢結果快取
// 同一查詢字串在 TTL 內重複查詢時直接回傳快取結果，減少外部 API 用量
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache 建立查詢結果快取，連線失敗時回傳錯誤
func NewCache(cfg *config.RedisConfig, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Get 取得快取的查詢結果
func (c *Cache) Get(ctx context.Context, query string) (*common.RecipeMetadata, error) {
	data, err := c.client.Get(ctx, c.key(query)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var md common.RecipeMetadata
	if err := common.ParseJSONBytes(data, &md); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return &md, nil
}

// Set 寫入查詢結果
func (c *Cache) Set(ctx context.Context, query string, md common.RecipeMetadata) error {
	data, err := common.ToJSON(md)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := c.client.Set(ctx, c.key(query), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (c *Cache) Close() error {
	return c.client.Close()
}

// key 生成快取鍵，查詢字串轉小寫後比對
func (c *Cache) key(query string) string {
	return fmt.Sprintf("metadata:recipe:%s", strings.ToLower(strings.TrimSpace(query)))
}
