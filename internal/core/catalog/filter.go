package catalog

import (
	"fmt"
	"strings"
)

// RecipeFilter 進階篩選條件，零值允許所有食譜
type RecipeFilter struct {
	MinRating   float64  `json:"min_rating"`
	MinNumRated int      `json:"min_num_rated"`
	Ingredients []string `json:"ingredients"` // 必須包含的食材
	Keywords    []string `json:"keywords"`    // 必須包含的關鍵字
	Course      []string `json:"course"`      // 必須包含的課程
}

// Validate 檢查篩選條件
func (f RecipeFilter) Validate() error {
	if f.MinRating < 0 {
		return fmt.Errorf("%w: negative min rating", ErrInvalidArgument)
	}
	if f.MinNumRated < 0 {
		return fmt.Errorf("%w: negative min rating count", ErrInvalidArgument)
	}
	return nil
}

// Match 判斷食譜是否符合所有條件
func (f RecipeFilter) Match(r *Recipe) bool {
	if r.Rating < f.MinRating {
		return false
	}
	if r.NumRated < f.MinNumRated {
		return false
	}
	if !hasTags(r.NormalizedIngredients, normalizeAll(f.Ingredients)) {
		return false
	}
	if !hasTags(r.NormalizedKeywords, normalizeAll(f.Keywords)) {
		return false
	}
	if !hasTags(normalizeAll(r.Course), normalizeAll(f.Course)) {
		return false
	}
	return true
}

// Apply 依索引順序回傳符合條件的 ID
func (f RecipeFilter) Apply(idx *Index) []string {
	var out []string
	for _, r := range idx.All() {
		if f.Match(r) {
			out = append(out, r.ID)
		}
	}
	return out
}

// hasTags 每個想要的標籤都必須是某個既有標籤的子字串
func hasTags(allTags, desiredTags []string) bool {
	for _, want := range desiredTags {
		found := false
		for _, tag := range allTags {
			if strings.Contains(tag, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
