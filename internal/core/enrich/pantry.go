package enrich

import (
	"strings"
)

// DefaultIngredients 外部來源沒有提供任何食材時使用的模擬清單
var DefaultIngredients = []string{"flour", "sugar", "butter", "eggs"}

// Reconcile 計算缺少的食材：食材清單與庫存在大小寫不敏感比較下的差集
// 結果保持食材清單的順序；純函數，無任何外部呼叫
func Reconcile(ingredients, pantry []string) []string {
	owned := make(map[string]struct{}, len(pantry))
	for _, item := range pantry {
		owned[strings.ToLower(item)] = struct{}{}
	}

	missing := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if _, ok := owned[strings.ToLower(ing)]; ok {
			continue
		}
		missing = append(missing, ing)
	}
	return missing
}
