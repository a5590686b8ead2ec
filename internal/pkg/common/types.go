package common

import (
	"strings"
	"time"
)

// 對話角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message 對話中的一則訊息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LastUserMessage 取出對話中最後一則使用者訊息
// 對話中必須至少有一則 user 訊息，否則回傳 ErrNoUserMessage
func LastUserMessage(messages []Message) (string, error) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, nil
		}
	}
	return "", ErrNoUserMessage
}

// ValidateConversation 驗證對話內容
func ValidateConversation(messages []Message) error {
	if len(messages) == 0 {
		return NewValidationError("messages is required")
	}
	if _, err := LastUserMessage(messages); err != nil {
		return NewValidationError("conversation must contain at least one user message")
	}
	return nil
}

// Nutrient 單一營養素（名稱、數值、單位）
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// RecipeMetadata 外部查詢取得的食譜中繼資料，查詢失敗時所有欄位皆為空值
type RecipeMetadata struct {
	ImageURL       *string    `json:"image_url"`
	Nutrients      []Nutrient `json:"nutrients"`
	Servings       *int       `json:"servings"`
	ReadyInMinutes *int       `json:"ready_in_minutes"`
}

// SavedRecipe 使用者收藏的食譜
type SavedRecipe struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// UserProfile 使用者偏好與庫存
type UserProfile struct {
	Preferences []string `json:"preferences"`
	Pantry      []string `json:"pantry"`
}

// BuildSystemPrompt 根據偏好與庫存組出 system prompt
func BuildSystemPrompt(preferences, pantry []string) string {
	var sb strings.Builder
	sb.WriteString("You are Kitchen Companion, a clever and charming assistant with expert culinary advice. ")
	if len(preferences) > 0 {
		sb.WriteString("Tailor recipes to these dietary preferences: ")
		sb.WriteString(strings.Join(preferences, ", "))
		sb.WriteString(". ")
	}
	if len(pantry) > 0 {
		sb.WriteString("Use available pantry items: ")
		sb.WriteString(strings.Join(pantry, ", "))
		sb.WriteString(". ")
	}
	sb.WriteString("Keep responses detailed, practical, and engaging. List ingredients as markdown bullet lines.")
	return sb.String()
}
