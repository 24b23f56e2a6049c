package recipe

import (
	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/core/favorites"
)

// State 應用程式狀態，只由 Service 在鎖內修改
type State struct {
	Index     *catalog.Index
	Courses   *catalog.GroupSet
	Cuisines  *catalog.GroupSet
	Favorites *favorites.Store
	Sort      catalog.Criterion
	Query     string
}

// Action 可交給 Dispatch 的動作
type Action interface {
	actionName() string
}

// ToggleFavorite 切換收藏
type ToggleFavorite struct {
	ID string
}

// ApplyQuery 套用搜尋字串
type ApplyQuery struct {
	Query string
}

// SetSort 變更排序方式
type SetSort struct {
	Criterion catalog.Criterion
}

// Reload 以新的資料重建索引與分組
type Reload struct {
	Recipes []catalog.Recipe
}

func (ToggleFavorite) actionName() string { return "toggle_favorite" }
func (ApplyQuery) actionName() string     { return "apply_query" }
func (SetSort) actionName() string        { return "set_sort" }
func (Reload) actionName() string         { return "reload" }

// Effect 動作造成的影響，告訴呼叫端哪些畫面需要重繪
type Effect struct {
	Action       string   `json:"action"`
	Groups       bool     `json:"groups"`    // 課程、料理類別與「全部」分組
	Favorites    bool     `json:"favorites"` // 收藏分組
	Rebuilt      bool     `json:"rebuilt"`
	Favorited    bool     `json:"favorited"`
	VisibleCount int      `json:"visible_count"`
	Pruned       []string `json:"pruned,omitempty"`
}

// GroupView 單一分組的顯示資料，RecipeIDs 為可見且已排序的 ID
type GroupView struct {
	Kind         string   `json:"kind"`
	Key          string   `json:"key"`
	DisplayName  string   `json:"display_name"`
	Total        int      `json:"total"`
	VisibleCount int      `json:"visible_count"`
	RecipeIDs    []string `json:"recipe_ids"`
	Error        string   `json:"error,omitempty"`
}

// Snapshot 整個目錄當下的顯示資料
type Snapshot struct {
	Sort         catalog.Criterion `json:"sort"`
	Query        string            `json:"query"`
	Total        int               `json:"total"`
	VisibleCount int               `json:"visible_count"`
	All          GroupView         `json:"all"`
	Favorites    GroupView         `json:"favorites"`
	Courses      []GroupView       `json:"courses"`
	Cuisines     []GroupView       `json:"cuisines"`
}

// 虛擬分組
const (
	KindAll       = "all"
	KindFavorites = "favorites"
)
