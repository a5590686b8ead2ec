package user

import (
	"context"
	"fmt"

	"kitchen-companion/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// Store 使用者資料存取層
// 庫存與偏好各自存成 Redis list，讀取路徑供豐富化管線使用
type Store struct {
	client *redis.Client
}

// NewStore 建立使用者資料存取層
func NewStore(cfg *config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client}, nil
}

// Pantry 讀取使用者庫存，未設定時回傳空清單
func (s *Store) Pantry(ctx context.Context, userID string) ([]string, error) {
	items, err := s.client.LRange(ctx, pantryKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read pantry: %w", err)
	}
	return items, nil
}

// SetPantry 覆寫使用者庫存
func (s *Store) SetPantry(ctx context.Context, userID string, items []string) error {
	key := pantryKey(userID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(items) > 0 {
		args := make([]interface{}, len(items))
		for i, item := range items {
			args[i] = item
		}
		pipe.RPush(ctx, key, args...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write pantry: %w", err)
	}
	return nil
}

// Preferences 讀取使用者飲食偏好，未設定時回傳空清單
func (s *Store) Preferences(ctx context.Context, userID string) ([]string, error) {
	prefs, err := s.client.LRange(ctx, preferencesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	return prefs, nil
}

// SetPreferences 覆寫使用者飲食偏好
func (s *Store) SetPreferences(ctx context.Context, userID string, prefs []string) error {
	key := preferencesKey(userID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(prefs) > 0 {
		args := make([]interface{}, len(prefs))
		for i, p := range prefs {
			args[i] = p
		}
		pipe.RPush(ctx, key, args...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *Store) Close() error {
	return s.client.Close()
}

func pantryKey(userID string) string {
	return fmt.Sprintf("user:%s:pantry", userID)
}

func preferencesKey(userID string) string {
	return fmt.Sprintf("user:%s:preferences", userID)
}
