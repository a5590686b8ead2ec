package enrich

import (
	"regexp"
	"strings"
)

// 項目符號行：- 、* 、• 開頭
var bulletPattern = regexp.MustCompile(`^\s*[-*•]\s+`)

// 行首數量：整數、小數、簡單分數、帶分數（例如 2、2.5、1/2、1 1/2）
var quantityPattern = regexp.MustCompile(`^(\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?)\s*`)

// 預設單位詞彙，全部比對時轉小寫
var defaultUnits = []string{
	"cup", "cups",
	"tbsp", "tablespoon", "tablespoons",
	"tsp", "teaspoon", "teaspoons",
	"oz", "ounce", "ounces",
	"g", "gram", "grams",
	"kg",
	"ml", "l", "liter", "liters",
	"lb", "lbs", "pound", "pounds",
	"pinch", "dash",
	"stick", "sticks",
	"clove", "cloves",
	"can", "cans",
	"slice", "slices",
	"large", "small", "medium",
}

// Extractor 從食譜文字中擷取食材清單
// 只處理項目符號行，去除行首的數量與單位後留下食材名稱
type Extractor struct {
	units map[string]struct{}
}

// NewExtractor 建立擷取器，使用預設單位詞彙
func NewExtractor() *Extractor {
	return NewExtractorWithUnits(defaultUnits)
}

// NewExtractorWithUnits 建立擷取器，使用自訂單位詞彙
func NewExtractorWithUnits(units []string) *Extractor {
	set := make(map[string]struct{}, len(units))
	for _, u := range units {
		set[strings.ToLower(u)] = struct{}{}
	}
	return &Extractor{units: set}
}

// Extract 擷取食材清單
// 沒有項目符號行時回傳空清單，不視為錯誤；重複項目以大小寫敏感的完全比對去重
func (e *Extractor) Extract(text string) []string {
	ingredients := make([]string, 0)
	seen := make(map[string]struct{})

	for _, line := range strings.Split(text, "\n") {
		loc := bulletPattern.FindStringIndex(line)
		if loc == nil {
			continue
		}

		name := e.stripTokens(line[loc[1]:])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		ingredients = append(ingredients, name)
	}

	return ingredients
}

// stripTokens 去除行首的數量與單位 token
func (e *Extractor) stripTokens(line string) string {
	rest := strings.TrimSpace(line)

	// 去除數量
	if loc := quantityPattern.FindStringIndex(rest); loc != nil {
		rest = strings.TrimSpace(rest[loc[1]:])
	}

	// 去除單位（最多一個），以及單位後的 "of"
	if first, remainder, ok := strings.Cut(rest, " "); ok {
		if _, isUnit := e.units[strings.ToLower(first)]; isUnit {
			rest = strings.TrimSpace(remainder)
			if after, found := strings.CutPrefix(rest, "of "); found {
				rest = strings.TrimSpace(after)
			}
		}
	} else if _, isUnit := e.units[strings.ToLower(rest)]; isUnit {
		// 整行只剩單位，沒有食材名稱
		return ""
	}

	return strings.TrimSpace(rest)
}
