package enrich

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Candidate 在回覆文字中命中的關鍵字變體與對應連結
type Candidate struct {
	Variant string
	URL     string
}

// Matcher 聯盟連結匹配器
// 目錄唯讀可併發共用；rand.Rand 非併發安全，以鎖保護
type Matcher struct {
	catalog       *Catalog
	maxLinks      int
	fallbackCount int
	mu            sync.Mutex
	rng           *rand.Rand
}

// NewMatcher 建立匹配器
// src 為可注入的隨機來源，傳入 nil 時使用時間種子；測試可用固定種子取得可重現的選取
func NewMatcher(catalog *Catalog, maxLinks, fallbackCount int, src rand.Source) *Matcher {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Matcher{
		catalog:       catalog,
		maxLinks:      maxLinks,
		fallbackCount: fallbackCount,
		rng:           rand.New(src),
	}
}

// variantPattern 單一關鍵字變體的匹配模式：詞邊界、大小寫不敏感、容忍複數字尾 s
func variantPattern(variant string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + regexp.QuoteMeta(variant) + `s?)\b`)
}

// Annotate 將回覆文字中的產品關鍵字轉換為 markdown 連結
// 有命中時最多注入 maxLinks 個相異連結；毫無命中時改附加推薦區塊
// 回傳注入後的文字與所有命中的候選（供後續使用）
func (m *Matcher) Annotate(text string) (string, []Candidate) {
	candidates := m.scan(text)
	if len(candidates) == 0 {
		return m.appendFallback(text), nil
	}

	selected := m.pick(candidates, m.maxLinks)
	for _, c := range selected {
		text = injectLink(text, c)
	}
	return text, candidates
}

// scan 掃描文字，收集每個產品第一個命中的變體
func (m *Matcher) scan(text string) []Candidate {
	candidates := make([]Candidate, 0)
	for _, e := range m.catalog.Entries() {
		for _, variant := range e.Variants {
			if variantPattern(variant).MatchString(text) {
				candidates = append(candidates, Candidate{Variant: variant, URL: e.AffiliateURL})
				break // 同一產品只取第一個命中的變體
			}
		}
	}
	return candidates
}

// pick 從候選中不重複地隨機選出最多 n 個
func (m *Matcher) pick(candidates []Candidate, n int) []Candidate {
	if n > len(candidates) {
		n = len(candidates)
	}

	m.mu.Lock()
	perm := m.rng.Perm(len(candidates))
	m.mu.Unlock()

	selected := make([]Candidate, 0, n)
	for _, idx := range perm[:n] {
		selected = append(selected, candidates[idx])
	}
	return selected
}

// linkPattern 既有 markdown 連結的完整範圍（連結文字加網址）
var linkPattern = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)

// injectLink 將變體在原文中的第一個未連結出現處替換為 markdown 連結
// 保留原文大小寫；落在既有連結範圍內的出現處一律跳過，避免產生巢狀連結
// （目錄中有重疊變體時，例如 mixer 與 hand mixer，後注入者不得碰前者的連結文字）
func injectLink(text string, c Candidate) string {
	pattern := variantPattern(c.Variant)
	links := linkPattern.FindAllStringIndex(text, -1)
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if insideLink(links, loc) {
			continue
		}
		matched := text[loc[0]:loc[1]]
		return text[:loc[0]] + fmt.Sprintf("[%s](%s)", matched, c.URL) + text[loc[1]:]
	}
	return text
}

// insideLink 判斷匹配範圍是否與既有連結重疊
func insideLink(links [][]int, loc []int) bool {
	for _, l := range links {
		if loc[0] < l[1] && loc[1] > l[0] {
			return true
		}
	}
	return false
}

// appendFallback 無任何命中時附加推薦區塊，隨機抽樣最多 fallbackCount 個產品
// 空目錄時不附加任何內容，原文不變
func (m *Matcher) appendFallback(text string) string {
	if m.catalog.Len() == 0 {
		return text
	}

	n := m.fallbackCount
	if n > m.catalog.Len() {
		n = m.catalog.Len()
	}

	m.mu.Lock()
	perm := m.rng.Perm(m.catalog.Len())
	m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n**Recommended tools:**\n")
	for _, idx := range perm[:n] {
		e := m.catalog.Entries()[idx]
		sb.WriteString(fmt.Sprintf("- [%s](%s)\n", e.CanonicalName, e.AffiliateURL))
	}
	return sb.String()
}
