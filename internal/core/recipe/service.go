package recipe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/core/debounce"
	"recipe-catalog/internal/core/favorites"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultDebounce 搜尋輸入的預設延遲
const DefaultDebounce = 500 * time.Millisecond

// Options Service 設定
type Options struct {
	Sorter      *catalog.Sorter
	Favorites   *favorites.Store
	DefaultSort catalog.Criterion
	Debounce    time.Duration
	// PruneFavorites 為 true 時，Reload 會移除已不在目錄中的收藏
	PruneFavorites bool
}

// Service 食譜目錄控制器，所有狀態讀寫都經過同一把鎖
// --------------------------------------------------
type Service struct {
	mu             sync.Mutex
	state          State
	sorter         *catalog.Sorter
	debouncer      *debounce.Debouncer
	pruneFavorites bool
}

// NewService 建立索引、分組並套用已保存的收藏
func NewService(ctx context.Context, recipes []catalog.Recipe, opts Options) (*Service, error) {
	if opts.Sorter == nil {
		opts.Sorter = catalog.NewSorter(catalog.DefaultLocale)
	}
	if opts.DefaultSort == "" {
		opts.DefaultSort = catalog.ByName
	}
	if _, err := catalog.ParseCriterion(string(opts.DefaultSort)); err != nil {
		return nil, fmt.Errorf("default sort: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Favorites == nil {
		store, err := favorites.New(ctx, favorites.NewMemoryStorage(), favorites.DefaultKey)
		if err != nil {
			return nil, err
		}
		opts.Favorites = store
	}

	s := &Service{
		sorter:         opts.Sorter,
		debouncer:      debounce.New(opts.Debounce),
		pruneFavorites: opts.PruneFavorites,
		state: State{
			Favorites: opts.Favorites,
			Sort:      opts.DefaultSort,
		},
	}
	if _, err := s.rebuild(ctx, recipes); err != nil {
		return nil, err
	}
	return s, nil
}

// Dispatch 套用動作並回報影響
func (s *Service) Dispatch(ctx context.Context, action Action) (Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	effect := Effect{Action: action.actionName()}

	switch a := action.(type) {
	case ToggleFavorite:
		r, err := s.state.Index.Get(a.ID)
		if err != nil {
			return effect, err
		}
		on, err := s.state.Favorites.Toggle(ctx, a.ID)
		if err != nil {
			return effect, err
		}
		r.Favorited = on
		effect.Favorites = true
		effect.Favorited = on

	case ApplyQuery:
		s.state.Query = a.Query
		effect.VisibleCount = catalog.ApplyQuery(s.state.Index, a.Query)
		effect.Groups = true
		effect.Favorites = true

	case SetSort:
		c, err := catalog.ParseCriterion(string(a.Criterion))
		if err != nil {
			return effect, err
		}
		s.state.Sort = c
		effect.Groups = true
		effect.Favorites = true

	case Reload:
		pruned, err := s.rebuild(ctx, a.Recipes)
		if err != nil {
			return effect, err
		}
		effect.Rebuilt = true
		effect.Groups = true
		effect.Favorites = true
		effect.Pruned = pruned
		effect.VisibleCount = s.visibleCountLocked()

	default:
		return effect, fmt.Errorf("unsupported action %T: %w", action, catalog.ErrInvalidArgument)
	}

	common.LogDebug("action applied",
		zap.String("action", effect.Action),
		zap.Bool("groups", effect.Groups),
		zap.Bool("favorites", effect.Favorites),
	)
	return effect, nil
}

// rebuild 重建索引與分組，並重新套用目前的搜尋字串與收藏。失敗時保留原狀態。
func (s *Service) rebuild(ctx context.Context, recipes []catalog.Recipe) ([]string, error) {
	idx, err := catalog.BuildIndex(recipes)
	if err != nil {
		return nil, err
	}
	courses, cuisines := catalog.Categorize(idx)

	var pruned []string
	if s.pruneFavorites {
		pruned, err = s.state.Favorites.Prune(ctx, idx.Has)
		if err != nil {
			return nil, err
		}
	}

	for _, r := range idx.All() {
		r.Favorited = s.state.Favorites.IsFavorite(r.ID)
	}
	catalog.ApplyQuery(idx, s.state.Query)

	s.state.Index = idx
	s.state.Courses = courses
	s.state.Cuisines = cuisines

	common.LogInfo("catalog loaded",
		zap.Int("recipes", idx.Len()),
		zap.Int("courses", courses.Len()),
		zap.Int("cuisines", cuisines.Len()),
		zap.Int("duplicates", len(idx.Duplicates())),
	)
	return pruned, nil
}

// QueryChanged 每次輸入都呼叫，只有停止輸入超過延遲後最後一次的字串會被套用
func (s *Service) QueryChanged(query string) debounce.Token {
	return s.debouncer.Schedule(func() {
		if _, err := s.Dispatch(context.Background(), ApplyQuery{Query: query}); err != nil {
			common.LogError("failed to apply debounced query", zap.String("query", query), zap.Error(err))
		}
	})
}

// CancelQuery 取消尚未套用的搜尋
func (s *Service) CancelQuery(tok debounce.Token) bool {
	return s.debouncer.Cancel(tok)
}

// FlushQuery 立即套用等待中的搜尋
func (s *Service) FlushQuery() bool {
	return s.debouncer.Flush()
}

// SearchPending 是否有等待中的搜尋
func (s *Service) SearchPending() bool {
	return s.debouncer.Pending()
}

// Close 停止延遲中的搜尋
func (s *Service) Close() {
	s.debouncer.Stop()
}

// Query 目前的搜尋字串
func (s *Service) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Query
}

// Sort 目前的排序方式
func (s *Service) Sort() catalog.Criterion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Sort
}

// Recipe 取得食譜副本
func (s *Service) Recipe(id string) (catalog.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.state.Index.Get(id)
	if err != nil {
		return catalog.Recipe{}, err
	}
	return *r, nil
}

// Favorites 依 ID 排序的收藏
func (s *Service) Favorites() []string {
	return s.state.Favorites.All()
}

// Stats 目錄統計
type Stats struct {
	Recipes    int `json:"recipes"`
	Visible    int `json:"visible"`
	Courses    int `json:"courses"`
	Cuisines   int `json:"cuisines"`
	Favorites  int `json:"favorites"`
	Duplicates int `json:"duplicates"`
}

// Stats 回傳目錄統計
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Recipes:    s.state.Index.Len(),
		Visible:    s.visibleCountLocked(),
		Courses:    s.state.Courses.Len(),
		Cuisines:   s.state.Cuisines.Len(),
		Favorites:  s.state.Favorites.Len(),
		Duplicates: len(s.state.Index.Duplicates()),
	}
}

// Filter 以進階條件篩選，結果依目前排序方式排列
func (s *Service) Filter(f catalog.RecipeFilter) ([]string, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := f.Apply(s.state.Index)
	sorted, err := s.sorter.SortIDs(s.state.Index, s.state.Sort, ids)
	if err != nil {
		return nil, err
	}
	return sorted, nil
}

func (s *Service) visibleCountLocked() int {
	n := 0
	for _, r := range s.state.Index.All() {
		if r.Visible {
			n++
		}
	}
	return n
}
