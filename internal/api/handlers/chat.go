package handlers

import (
	"context"
	"net/http"

	"kitchen-companion/internal/core/enrich"
	"kitchen-companion/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileReader 讀取使用者偏好與庫存，用於組裝 system prompt
type ProfileReader interface {
	Preferences(ctx context.Context, userID string) ([]string, error)
	Pantry(ctx context.Context, userID string) ([]string, error)
}

// ChatHandler 聊天處理器
type ChatHandler struct {
	pipeline *enrich.Pipeline
	users    ProfileReader
}

// NewChatHandler 創建聊天處理器
func NewChatHandler(pipeline *enrich.Pipeline, users ProfileReader) *ChatHandler {
	return &ChatHandler{
		pipeline: pipeline,
		users:    users,
	}
}

// AskRequest 聊天請求：完整對話與使用者識別
type AskRequest struct {
	UserID   string           `json:"user_id" binding:"required"`
	Messages []common.Message `json:"messages" binding:"required"`
}

// Ask 處理聊天請求：前置 system prompt 後交給豐富化管線
func (h *ChatHandler) Ask(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := common.ValidateConversation(req.Messages); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	common.LogInfo("開始處理聊天請求",
		zap.String("request_id", requestID),
		zap.String("user_id", req.UserID),
		zap.Int("messages", len(req.Messages)),
	)

	ctx := c.Request.Context()

	// system prompt 由呼叫端組裝後前置，管線本身不處理
	preferences, err := h.users.Preferences(ctx, req.UserID)
	if err != nil {
		common.LogWarn("讀取偏好失敗，使用空偏好", zap.Error(err), zap.String("user_id", req.UserID))
		preferences = nil
	}
	pantry, err := h.users.Pantry(ctx, req.UserID)
	if err != nil {
		common.LogWarn("讀取庫存失敗，使用空庫存", zap.Error(err), zap.String("user_id", req.UserID))
		pantry = nil
	}

	messages := append([]common.Message{
		{Role: common.RoleSystem, Content: common.BuildSystemPrompt(preferences, pantry)},
	}, req.Messages...)

	response, err := h.pipeline.Enrich(ctx, req.UserID, messages)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("食譜生成失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("user_id", req.UserID),
		)
		c.JSON(common.ErrGenerationFailed.Status, gin.H{
			"error": common.ErrGenerationFailed.Message,
			"code":  common.ErrGenerationFailed.Code,
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
