package catalog

import "strings"

// ApplyQuery 依查詢字串設定每個食譜的 Visible，回傳可見數量。
// 空查詢全部可見；否則名稱、關鍵字或食材任一包含查詢字串即可見（子字串比對）。
func ApplyQuery(idx *Index, query string) int {
	q := Normalize(query, false)
	visible := 0
	for _, r := range idx.All() {
		r.Visible = q == "" || matchesQuery(r, q)
		if r.Visible {
			visible++
		}
	}
	return visible
}

// matchesQuery q 必須已正規化
func matchesQuery(r *Recipe, q string) bool {
	if strings.Contains(r.NormalizedName, q) {
		return true
	}
	for _, kw := range r.NormalizedKeywords {
		if strings.Contains(kw, q) {
			return true
		}
	}
	for _, ing := range r.NormalizedIngredients {
		if strings.Contains(ing, q) {
			return true
		}
	}
	return false
}
