package service

import (
	"context"
	"time"

	"kitchen-companion/internal/core/ai/cache"
	"kitchen-companion/internal/core/ai/openai"
	"kitchen-companion/internal/infrastructure/config"
	"kitchen-companion/internal/pkg/common"
)

// Service AI 服務
// 包裝 OpenAI 客戶端與回覆快取，對外提供單一 Complete 方法
type Service struct {
	config       *config.Config
	client       *openai.Client
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, cacheManager *cache.CacheManager) (*Service, error) {
	return &Service{
		config:       cfg,
		client:       openai.NewClient(cfg),
		cacheManager: cacheManager,
	}, nil
}

// Complete 送出對話並取回回覆，相同對話在 TTL 內直接使用快取
func (s *Service) Complete(ctx context.Context, messages []common.Message) (string, error) {
	// 以序列化後的對話作為快取鍵
	key, err := common.ToJSON(messages)
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, key); err == nil && val != "" {
			return val, nil
		}
	}

	start := time.Now()
	content, err := s.client.Complete(ctx, messages)
	common.LogAICall(key, time.Since(start), err, "")
	if err != nil {
		return "", err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, key, content)
	}

	return content, nil
}
