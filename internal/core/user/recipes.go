package user

import (
	"context"
	"fmt"
	"time"

	"kitchen-companion/internal/pkg/common"
)

// SaveRecipe 收藏食譜，回傳新產生的食譜 ID
func (s *Store) SaveRecipe(ctx context.Context, userID string, title, content string) (string, error) {
	recipe := common.SavedRecipe{
		ID:        common.GenerateUUID(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	data, err := common.ToJSON(recipe)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := s.client.HSet(ctx, recipesKey(userID), recipe.ID, data).Err(); err != nil {
		return "", fmt.Errorf("failed to save recipe: %w", err)
	}
	return recipe.ID, nil
}

// ListRecipes 列出使用者收藏的食譜
func (s *Store) ListRecipes(ctx context.Context, userID string) ([]common.SavedRecipe, error) {
	entries, err := s.client.HGetAll(ctx, recipesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]common.SavedRecipe, 0, len(entries))
	for _, data := range entries {
		var recipe common.SavedRecipe
		if err := common.ParseJSON(data, &recipe); err != nil {
			// 略過無法解析的條目
			continue
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// DeleteRecipe 刪除收藏的食譜
func (s *Store) DeleteRecipe(ctx context.Context, userID, recipeID string) error {
	removed, err := s.client.HDel(ctx, recipesKey(userID), recipeID).Result()
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if removed == 0 {
		return common.ErrNotFound
	}
	return nil
}

func recipesKey(userID string) string {
	return fmt.Sprintf("user:%s:recipes", userID)
}
