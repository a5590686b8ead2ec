package enrich

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"kitchen-companion/internal/pkg/common"

	"go.uber.org/zap"
)

// ChatService LLM 協作者：把對話送出並取回單一回覆
// 失敗視為致命錯誤，沒有回覆就沒有任何可豐富化的內容
type ChatService interface {
	Complete(ctx context.Context, messages []common.Message) (string, error)
}

// MetadataService 食譜中繼資料協作者：查詢失敗時回傳全空的 RecipeMetadata，不回傳錯誤
type MetadataService interface {
	Lookup(ctx context.Context, query string) common.RecipeMetadata
}

// PantryStore 使用者庫存讀取介面
type PantryStore interface {
	Pantry(ctx context.Context, userID string) ([]string, error)
}

// EnrichedResponse 豐富化管線的最終輸出
// 選填欄位一律以 null/空值表示，不省略，方便前端處理
type EnrichedResponse struct {
	Reply              string            `json:"reply"`
	ImageURL           *string           `json:"image_url"`
	Nutrition          []common.Nutrient `json:"nutrition"`
	Servings           *int              `json:"servings"`
	Time               *int              `json:"time"`
	Ingredients        []string          `json:"ingredients"`
	MissingIngredients []string          `json:"missing_ingredients"`
	InstacartLink      string            `json:"instacart_link"`
	AmazonLink         string            `json:"amazon_link"`
}

// Pipeline 食譜回應豐富化管線
// 除目錄外所有狀態皆為請求範圍，可供多個請求併發使用
type Pipeline struct {
	chat      ChatService
	metadata  MetadataService
	pantry    PantryStore
	extractor *Extractor
	matcher   *Matcher
}

// NewPipeline 建立豐富化管線
func NewPipeline(chat ChatService, metadata MetadataService, pantry PantryStore, extractor *Extractor, matcher *Matcher) *Pipeline {
	return &Pipeline{
		chat:      chat,
		metadata:  metadata,
		pantry:    pantry,
		extractor: extractor,
		matcher:   matcher,
	}
}

// Enrich 執行完整管線：LLM 回覆 → 連結注入 / 食材擷取 → 庫存比對 → 購物連結
// 中繼資料查詢只依賴使用者查詢字串，與 LLM 呼叫併行發出
func (p *Pipeline) Enrich(ctx context.Context, userID string, messages []common.Message) (*EnrichedResponse, error) {
	if userID == "" {
		return nil, common.ErrMissingUserID
	}
	if err := common.ValidateConversation(messages); err != nil {
		return nil, err
	}

	query, err := common.LastUserMessage(messages)
	if err != nil {
		return nil, err
	}

	// 中繼資料查詢與 LLM 呼叫之間沒有資料依賴，併行發出
	var wg sync.WaitGroup
	var metadata common.RecipeMetadata
	wg.Add(1)
	go func() {
		defer wg.Done()
		metadata = p.metadata.Lookup(ctx, query)
	}()

	reply, err := p.chat.Complete(ctx, messages)
	if err != nil {
		wg.Wait()
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	// 擷取與連結注入各自以原始回覆為輸入，互不影響
	ingredients := p.extractor.Extract(reply)
	linked, _ := p.matcher.Annotate(reply)
	linked = decorateTitle(query, linked)

	pantryItems, err := p.pantry.Pantry(ctx, userID)
	if err != nil {
		// 庫存讀取失敗降級為空庫存，所有食材視為缺少
		common.LogEnrichStage("pantry", userID, err)
		pantryItems = nil
	}

	// 擷取不到任何食材時，以模擬清單計算缺少項目
	basis := ingredients
	if len(basis) == 0 {
		basis = DefaultIngredients
	}
	missing := Reconcile(basis, pantryItems)
	links := BuildShoppingLinks(missing)

	wg.Wait()

	common.LogDebug("管線完成",
		zap.String("user_id", userID),
		zap.Int("ingredients", len(ingredients)),
		zap.Int("missing", len(missing)),
		zap.Bool("metadata_found", metadata.ImageURL != nil),
	)

	return &EnrichedResponse{
		Reply:              linked,
		ImageURL:           metadata.ImageURL,
		Nutrition:          metadata.Nutrients,
		Servings:           metadata.Servings,
		Time:               metadata.ReadyInMinutes,
		Ingredients:        ingredients,
		MissingIngredients: missing,
		InstacartLink:      links.Instacart,
		AmazonLink:         links.Amazon,
	}, nil
}

// decorateTitle 在回覆前加上標題列
func decorateTitle(query, reply string) string {
	return fmt.Sprintf("**🍽️ Recipe: %s**\n\n%s", titleCase(query), reply)
}

// titleCase 將查詢字串轉為標題大小寫
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
