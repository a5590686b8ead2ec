package enrich

import (
	"strings"
)

// 零售端搜尋連結模板
const (
	instacartSearchURL = "https://www.instacart.com/store/s?k="
	amazonSearchURL    = "https://www.amazon.com/s?k="
)

// ShoppingLinks 兩個零售端的購物清單搜尋連結
type ShoppingLinks struct {
	Instacart string `json:"instacart_link"`
	Amazon    string `json:"amazon_link"`
}

// BuildShoppingLinks 將缺少的食材組成零售端搜尋連結
// 清單為空時兩個連結皆為空字串；查詢字串以逗號串接，不做 URL 編碼
func BuildShoppingLinks(missing []string) ShoppingLinks {
	if len(missing) == 0 {
		return ShoppingLinks{}
	}

	query := strings.Join(missing, ",")
	return ShoppingLinks{
		Instacart: instacartSearchURL + query,
		Amazon:    amazonSearchURL + query,
	}
}
