package enrich

import (
	"fmt"
	"os"

	"kitchen-companion/internal/pkg/common"
)

// ProductEntry 聯盟產品：正式名稱、可匹配的關鍵字變體、導購連結
type ProductEntry struct {
	CanonicalName string   `json:"canonical_name"`
	Variants      []string `json:"variants"`
	AffiliateURL  string   `json:"affiliate_url"`
}

// Catalog 唯讀產品目錄，啟動時建立後不再變動，可供多個請求併發讀取
type Catalog struct {
	entries []ProductEntry
}

// NewCatalog 建立產品目錄，略過沒有變體或連結的條目
func NewCatalog(entries []ProductEntry) *Catalog {
	valid := make([]ProductEntry, 0, len(entries))
	for _, e := range entries {
		if len(e.Variants) == 0 || e.AffiliateURL == "" {
			continue
		}
		valid = append(valid, e)
	}
	return &Catalog{entries: valid}
}

// Entries 回傳目錄條目
func (c *Catalog) Entries() []ProductEntry {
	return c.entries
}

// Len 目錄大小
func (c *Catalog) Len() int {
	return len(c.entries)
}

// LoadCatalogFile 從 JSON 檔案載入產品目錄
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var entries []ProductEntry
	if err := common.ParseJSONBytes(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return NewCatalog(entries), nil
}

// entry 輔助建構單一產品條目
func entry(name, url string, variants ...string) ProductEntry {
	if len(variants) == 0 {
		variants = []string{name}
	}
	return ProductEntry{CanonicalName: name, Variants: variants, AffiliateURL: url}
}

// DefaultCatalog 內建產品目錄
func DefaultCatalog() *Catalog {
	return NewCatalog([]ProductEntry{
		entry("mixer", "https://amzn.to/44QqzQf", "mixer", "stand mixer"),
		entry("mixing bowl", "https://amzn.to/3SepGJI"),
		entry("measuring cup", "https://amzn.to/44h5HBt"),
		entry("spatula", "https://amzn.to/4iILIiP"),
		entry("scale", "https://amzn.to/4cUBs5t", "scale", "kitchen scale"),
		entry("rolling pin", "https://amzn.to/3Gy1mQv"),
		entry("6 inch pan", "https://amzn.to/4lRwo64"),
		entry("9 inch pan", "https://amzn.to/42xSUtc"),
		entry("cake decorating", "https://amzn.to/4lUd08m"),
		entry("whisk", "https://amzn.to/3GwiBlk"),
		entry("bench scraper", "https://amzn.to/3GzcuN2"),
		entry("loaf pan", "https://amzn.to/42XzcpD"),
		entry("almond flour", "https://amzn.to/4iCs3kx"),
		entry("no sugar added chocolate chips", "https://amzn.to/3SfqlKU"),
		entry("monk fruit sweetener", "https://amzn.to/4cSRP2u", "monk fruit sweetener", "monk fruit"),
		entry("coconut sugar", "https://amzn.to/42TZN6S"),
		entry("whole wheat flour", "https://amzn.to/4jAbpmQ"),
		entry("cake flour", "https://amzn.to/3YmwUz1"),
		entry("silicone baking mat", "https://amzn.to/4jJcRmI", "silicone baking mat", "baking mat"),
		entry("avocado oil", "https://amzn.to/3EwlK43"),
		entry("digital thermometer", "https://amzn.to/42SIDXr", "digital thermometer", "instant-read thermometer", "thermometer"),
		entry("food storage containers", "https://amzn.to/4k1U7ip"),
		entry("baking sheet", "https://amzn.to/44ijPdO"),
		entry("hand mixer", "https://amzn.to/437UVwi"),
		entry("wire racks", "https://amzn.to/42Rghg3", "wire racks", "wire rack", "cooling rack"),
		entry("cookie scoop", "https://amzn.to/3EH8Yjd"),
		entry("food processor", "https://amzn.to/4iLcbvY"),
		entry("matcha", "https://amzn.to/4d0bGwL"),
		entry("cocoa powder", "https://amzn.to/42WB3Lp"),
	})
}
