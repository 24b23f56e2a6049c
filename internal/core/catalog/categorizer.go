package catalog

import (
	"fmt"
	"sort"

	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// 分組種類
const (
	KindCourse  = "course"
	KindCuisine = "cuisine"
)

// GroupSet 同一種類的所有分組，保留建立順序
type GroupSet struct {
	Kind       string
	order      []string
	groups     map[string]*Group
	collisions []Collision
}

func newGroupSet(kind string) *GroupSet {
	return &GroupSet{
		Kind:   kind,
		groups: make(map[string]*Group),
	}
}

// add 將食譜加入標籤對應的分組，第一次看到的標籤原文作為顯示名稱
func (s *GroupSet) add(label, id string) {
	key := MakeIdentifierSafe(label)
	g, ok := s.groups[key]
	if !ok {
		g = newGroup(key, label)
		s.groups[key] = g
		s.order = append(s.order, key)
	} else if g.DisplayName != label && !s.seenCollision(key, label) {
		s.collisions = append(s.collisions, Collision{Key: key, Existing: g.DisplayName, Incoming: label})
		common.LogWarn("group labels collide, merging",
			zap.String("kind", s.Kind),
			zap.String("key", key),
			zap.String("existing", g.DisplayName),
			zap.String("incoming", label),
		)
	}
	g.add(id)
}

func (s *GroupSet) seenCollision(key, label string) bool {
	for _, c := range s.collisions {
		if c.Key == key && c.Incoming == label {
			return true
		}
	}
	return false
}

// Get 依 key 取得分組
func (s *GroupSet) Get(key string) (*Group, error) {
	g, ok := s.groups[key]
	if !ok {
		return nil, fmt.Errorf("%s group %q: %w", s.Kind, key, ErrNotFound)
	}
	return g, nil
}

// Len 分組數量
func (s *GroupSet) Len() int {
	return len(s.order)
}

// Groups 依建立順序回傳分組
func (s *GroupSet) Groups() []*Group {
	out := make([]*Group, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.groups[key])
	}
	return out
}

// Sorted 依顯示名稱排序後回傳分組，排序只在顯示時進行
func (s *GroupSet) Sorted(sorter *Sorter) []*Group {
	out := s.Groups()
	sort.SliceStable(out, func(i, j int) bool {
		return sorter.CompareNames(out[i].DisplayName, out[j].DisplayName) < 0
	})
	return out
}

// Collisions 正規化後相撞而被合併的標籤
func (s *GroupSet) Collisions() []Collision {
	return s.collisions
}

// Categorize 一次走訪索引，依課程與料理類別分組。沒有標籤的食譜不會出現在任何分組。
func Categorize(idx *Index) (courses, cuisines *GroupSet) {
	courses = newGroupSet(KindCourse)
	cuisines = newGroupSet(KindCuisine)

	for _, r := range idx.All() {
		for _, course := range r.Course {
			courses.add(course, r.ID)
		}
		for _, cuisine := range r.Cuisine {
			cuisines.add(cuisine, r.ID)
		}
	}

	common.LogDebug("recipes categorized",
		zap.Int("courses", courses.Len()),
		zap.Int("cuisines", cuisines.Len()),
	)
	return courses, cuisines
}
