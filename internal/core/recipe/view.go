package recipe

import (
	"fmt"

	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// viewSource 組成單一 GroupView 需要的資料
type viewSource struct {
	kind        string
	key         string
	displayName string
	members     []string
}

// Views 以目前的排序方式產生整個目錄的顯示資料
func (s *Service) Views() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(s.state.Sort)
}

// ViewsSortedBy 以指定排序方式產生顯示資料，不改變目前的排序狀態
func (s *Service) ViewsSortedBy(c catalog.Criterion) (Snapshot, error) {
	c, err := catalog.ParseCriterion(string(c))
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(c), nil
}

// GroupList 回傳某種分組的所有顯示資料，依顯示名稱排序
func (s *Service) GroupList(kind string) ([]GroupView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.groupSetLocked(kind)
	if err != nil {
		return nil, err
	}
	return s.buildViews(s.sourcesLocked(set), s.state.Sort), nil
}

// Group 回傳單一分組的顯示資料。kind 可為 course、cuisine、all 或 favorites。
func (s *Service) Group(kind, key string) (GroupView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var src viewSource
	switch kind {
	case KindAll, KindFavorites:
		// 虛擬分組只有一個，key 只能留空或等於種類本身
		if key != "" && key != kind {
			return GroupView{}, fmt.Errorf("%s group %q: %w", kind, key, catalog.ErrNotFound)
		}
		if kind == KindAll {
			src = s.allSourceLocked()
		} else {
			src = s.favoritesSourceLocked()
		}
	default:
		set, err := s.groupSetLocked(kind)
		if err != nil {
			return GroupView{}, err
		}
		g, err := set.Get(key)
		if err != nil {
			return GroupView{}, err
		}
		src = viewSource{kind: set.Kind, key: g.Key, displayName: g.DisplayName, members: g.MemberIDs}
	}

	v := s.buildViews([]viewSource{src}, s.state.Sort)[0]
	return v, nil
}

func (s *Service) snapshotLocked(c catalog.Criterion) Snapshot {
	pseudo := s.buildViews([]viewSource{s.allSourceLocked(), s.favoritesSourceLocked()}, c)

	return Snapshot{
		Sort:         c,
		Query:        s.state.Query,
		Total:        s.state.Index.Len(),
		VisibleCount: pseudo[0].VisibleCount,
		All:          pseudo[0],
		Favorites:    pseudo[1],
		Courses:      s.buildViews(s.sourcesLocked(s.state.Courses), c),
		Cuisines:     s.buildViews(s.sourcesLocked(s.state.Cuisines), c),
	}
}

func (s *Service) groupSetLocked(kind string) (*catalog.GroupSet, error) {
	switch kind {
	case catalog.KindCourse, "courses":
		return s.state.Courses, nil
	case catalog.KindCuisine, "cuisines":
		return s.state.Cuisines, nil
	}
	return nil, fmt.Errorf("%w: unknown group kind %q", catalog.ErrInvalidArgument, kind)
}

// sourcesLocked 分組依顯示名稱排序
func (s *Service) sourcesLocked(set *catalog.GroupSet) []viewSource {
	groups := set.Sorted(s.sorter)
	out := make([]viewSource, 0, len(groups))
	for _, g := range groups {
		out = append(out, viewSource{kind: set.Kind, key: g.Key, displayName: g.DisplayName, members: g.MemberIDs})
	}
	return out
}

func (s *Service) allSourceLocked() viewSource {
	return viewSource{kind: KindAll, key: KindAll, displayName: "All Recipes", members: s.state.Index.IDs()}
}

// favoritesSourceLocked 只列出目前目錄中存在的收藏
func (s *Service) favoritesSourceLocked() viewSource {
	var members []string
	for _, id := range s.state.Favorites.All() {
		if s.state.Index.Has(id) {
			members = append(members, id)
		}
	}
	return viewSource{kind: KindFavorites, key: KindFavorites, displayName: "Favorites", members: members}
}

// buildViews 逐一組成分組顯示資料，單一分組失敗只記錄在該分組的 Error
func (s *Service) buildViews(sources []viewSource, c catalog.Criterion) []GroupView {
	views := make([]GroupView, 0, len(sources))
	for _, src := range sources {
		v := GroupView{
			Kind:        src.kind,
			Key:         src.key,
			DisplayName: src.displayName,
			Total:       len(src.members),
			RecipeIDs:   []string{},
		}

		ids, err := s.visibleSorted(src.members, c)
		if err != nil {
			v.Error = err.Error()
			common.LogWarn("failed to build group view",
				zap.String("kind", src.kind),
				zap.String("key", src.key),
				zap.Error(err),
			)
		} else {
			v.RecipeIDs = ids
			v.VisibleCount = len(ids)
		}
		views = append(views, v)
	}
	return views
}

func (s *Service) visibleSorted(members []string, c catalog.Criterion) ([]string, error) {
	visible := make([]string, 0, len(members))
	for _, id := range members {
		r, err := s.state.Index.Get(id)
		if err != nil {
			return nil, err
		}
		if r.Visible {
			visible = append(visible, id)
		}
	}
	return s.sorter.SortIDs(s.state.Index, c, visible)
}
