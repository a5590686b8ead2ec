package openai

import (
	"context"
	"fmt"
	"net/http"

	"kitchen-companion/internal/infrastructure/config"
	"kitchen-companion/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenAI 聊天客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建 OpenAI 聊天客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.OpenAI.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenAI.APIKey)).
		SetTimeout(cfg.OpenAI.Timeout)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Complete 送出完整對話並取回單一文字回覆
// 任何失敗（連線、非 2xx、空回覆）都回傳錯誤，由呼叫端決定是否致命
func (c *Client) Complete(ctx context.Context, messages []common.Message) (string, error) {
	req := map[string]interface{}{
		"model":       c.config.OpenAI.Model,
		"messages":    messages,
		"max_tokens":  c.config.OpenAI.MaxTokens,
		"temperature": c.config.OpenAI.Temperature,
	}

	common.LogDebug("Sending request to OpenAI",
		zap.String("model", c.config.OpenAI.Model),
		zap.Int("messages", len(messages)),
	)

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenAI: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned error: %s", resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	if result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty content in OpenAI response")
	}

	return result.Choices[0].Message.Content, nil
}
