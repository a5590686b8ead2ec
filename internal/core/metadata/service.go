package metadata

import (
	"context"
	"fmt"
	"net/http"

	"kitchen-companion/internal/infrastructure/config"
	"kitchen-companion/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 保留的營養素數量，只取查詢結果的前幾項
const maxNutrients = 4

// Service 食譜中繼資料查詢服務
// 透過 Spoonacular complexSearch 取得圖片、營養、份量與時間
// 任何失敗（非 2xx、逾時、格式錯誤、空結果）一律降級為全空結果，絕不讓錯誤越過管線邊界
type Service struct {
	config *config.Config
	client *resty.Client
	cache  *Cache
}

// searchResponse Spoonacular complexSearch 回應結構
type searchResponse struct {
	Results []struct {
		Image          string `json:"image"`
		Servings       int    `json:"servings"`
		ReadyInMinutes int    `json:"readyInMinutes"`
		Nutrition      struct {
			Nutrients []common.Nutrient `json:"nutrients"`
		} `json:"nutrition"`
	} `json:"results"`
}

// NewService 建立中繼資料查詢服務，cache 可為 nil（不使用快取）
func NewService(cfg *config.Config, cache *Cache) *Service {
	client := resty.New().
		SetBaseURL(cfg.Spoonacular.BaseURL).
		SetTimeout(cfg.Spoonacular.Timeout)

	return &Service{
		config: cfg,
		client: client,
		cache:  cache,
	}
}

// Lookup 以使用者查詢字串取得食譜中繼資料，失敗時回傳全空結果
func (s *Service) Lookup(ctx context.Context, query string) common.RecipeMetadata {
	if s.cache != nil {
		if md, err := s.cache.Get(ctx, query); err == nil {
			common.LogCacheHit("metadata", query)
			return *md
		}
		common.LogCacheMiss("metadata", query)
	}

	md, err := s.search(ctx, query)
	if err != nil {
		common.LogWarn("中繼資料查詢降級",
			zap.Error(err),
			zap.String("query", query),
		)
		return common.RecipeMetadata{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, md); err != nil {
			common.LogWarn("中繼資料快取寫入失敗", zap.Error(err))
		}
	}
	return md
}

// search 發出 complexSearch 請求並解析第一筆結果
func (s *Service) search(ctx context.Context, query string) (common.RecipeMetadata, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":              query,
			"number":             "1",
			"addRecipeNutrition": "true",
			"apiKey":             s.config.Spoonacular.APIKey,
		}).
		Get("/recipes/complexSearch")

	if err != nil {
		return common.RecipeMetadata{}, fmt.Errorf("failed to send request to Spoonacular: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return common.RecipeMetadata{}, fmt.Errorf("Spoonacular API returned status %d", resp.StatusCode())
	}

	var result searchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return common.RecipeMetadata{}, fmt.Errorf("failed to parse Spoonacular response: %w", err)
	}

	if len(result.Results) == 0 {
		return common.RecipeMetadata{}, fmt.Errorf("no results for query")
	}

	// 只取第一筆結果
	item := result.Results[0]
	md := common.RecipeMetadata{}
	if item.Image != "" {
		md.ImageURL = &item.Image
	}
	if item.Servings > 0 {
		servings := item.Servings
		md.Servings = &servings
	}
	if item.ReadyInMinutes > 0 {
		minutes := item.ReadyInMinutes
		md.ReadyInMinutes = &minutes
	}

	nutrients := item.Nutrition.Nutrients
	if len(nutrients) > maxNutrients {
		nutrients = nutrients[:maxNutrients]
	}
	md.Nutrients = nutrients

	return md, nil
}
