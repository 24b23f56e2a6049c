package catalog

import (
	"fmt"
	"strings"

	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// Index 以 ID 為鍵的食譜索引，建立後只有 Visible/Favorited 會變動
type Index struct {
	order      []string
	byID       map[string]*Recipe
	duplicates []string
}

// BuildIndex 一次走訪建立索引。
// 重複的 ID 以後出現者為準，但保留第一次出現的位置。
func BuildIndex(recipes []Recipe) (*Index, error) {
	idx := &Index{
		order: make([]string, 0, len(recipes)),
		byID:  make(map[string]*Recipe, len(recipes)),
	}

	for i := range recipes {
		r := recipes[i]
		if err := validateRecipe(&r); err != nil {
			return nil, fmt.Errorf("recipe #%d: %w", i, err)
		}
		r.augment()

		if _, exists := idx.byID[r.ID]; exists {
			idx.duplicates = append(idx.duplicates, r.ID)
			common.LogWarn("duplicate recipe id, later record wins",
				zap.String("id", r.ID),
				zap.String("name", r.Name),
			)
		} else {
			idx.order = append(idx.order, r.ID)
		}
		idx.byID[r.ID] = &r
	}

	common.LogDebug("recipe index built",
		zap.Int("recipes", len(idx.order)),
		zap.Int("duplicates", len(idx.duplicates)),
	)
	return idx, nil
}

func validateRecipe(r *Recipe) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidArgument)
	}
	if r.Rating < 0 {
		return fmt.Errorf("%w: negative rating for %s", ErrInvalidArgument, r.ID)
	}
	if r.NumRated < 0 {
		return fmt.Errorf("%w: negative rating count for %s", ErrInvalidArgument, r.ID)
	}
	return nil
}

// Get 依 ID 取得食譜
func (idx *Index) Get(id string) (*Recipe, error) {
	r, ok := idx.byID[id]
	if !ok {
		return nil, fmt.Errorf("recipe %q: %w", id, ErrNotFound)
	}
	return r, nil
}

// Has 判斷 ID 是否存在
func (idx *Index) Has(id string) bool {
	_, ok := idx.byID[id]
	return ok
}

// All 依索引順序回傳所有食譜
func (idx *Index) All() []*Recipe {
	out := make([]*Recipe, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.byID[id])
	}
	return out
}

// IDs 依索引順序回傳所有 ID（即「全部食譜」虛擬分組）
func (idx *Index) IDs() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Len 食譜數量
func (idx *Index) Len() int {
	return len(idx.order)
}

// Duplicates 建立時被覆蓋的重複 ID
func (idx *Index) Duplicates() []string {
	return idx.duplicates
}
