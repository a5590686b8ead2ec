package handlers

import (
	"net/http"

	"kitchen-companion/internal/core/user"
	"kitchen-companion/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 使用者資料處理器：庫存、偏好與收藏食譜
type UserHandler struct {
	users *user.Store
}

// NewUserHandler 創建使用者資料處理器
func NewUserHandler(users *user.Store) *UserHandler {
	return &UserHandler{users: users}
}

// PantryRequest 覆寫庫存的請求
type PantryRequest struct {
	Items []string `json:"items" binding:"required"`
}

// PreferencesRequest 覆寫飲食偏好的請求
type PreferencesRequest struct {
	Preferences []string `json:"preferences" binding:"required"`
}

// SaveRecipeRequest 收藏食譜的請求
type SaveRecipeRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// GetPantry 讀取庫存
func (h *UserHandler) GetPantry(c *gin.Context) {
	userID := c.Param("id")
	items, err := h.users.Pantry(c.Request.Context(), userID)
	if err != nil {
		common.LogError("讀取庫存失敗", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read pantry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SetPantry 覆寫庫存
func (h *UserHandler) SetPantry(c *gin.Context) {
	userID := c.Param("id")

	var req PantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.users.SetPantry(c.Request.Context(), userID, req.Items); err != nil {
		common.LogError("寫入庫存失敗", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write pantry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SetPreferences 覆寫飲食偏好
func (h *UserHandler) SetPreferences(c *gin.Context) {
	userID := c.Param("id")

	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.users.SetPreferences(c.Request.Context(), userID, req.Preferences); err != nil {
		common.LogError("寫入偏好失敗", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write preferences"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SaveRecipe 收藏食譜
func (h *UserHandler) SaveRecipe(c *gin.Context) {
	userID := c.Param("id")

	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.users.SaveRecipe(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		common.LogError("收藏食譜失敗", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Recipe saved", "id": id})
}

// ListRecipes 列出收藏的食譜
func (h *UserHandler) ListRecipes(c *gin.Context) {
	userID := c.Param("id")

	recipes, err := h.users.ListRecipes(c.Request.Context(), userID)
	if err != nil {
		common.LogError("讀取收藏失敗", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// DeleteRecipe 刪除收藏的食譜
func (h *UserHandler) DeleteRecipe(c *gin.Context) {
	userID := c.Param("id")
	recipeID := c.Param("recipe_id")

	if err := h.users.DeleteRecipe(c.Request.Context(), userID, recipeID); err != nil {
		if err == common.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		common.LogError("刪除收藏失敗", zap.Error(err), zap.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Recipe deleted"})
}
