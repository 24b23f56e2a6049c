package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Criterion 排序條件
type Criterion string

// 支援的排序條件
const (
	ByName     Criterion = "name"
	ByRating   Criterion = "rating"
	ByNumRated Criterion = "numRated"
)

// DefaultLocale 未設定語系時的名稱排序語系
var DefaultLocale = language.English

// ratingEpsilon 評分差距小於此值視為相同
const ratingEpsilon = 0.001

// Criteria 所有支援的排序條件
func Criteria() []Criterion {
	return []Criterion{ByName, ByRating, ByNumRated}
}

// ParseCriterion 解析排序條件，未知的條件回傳 ErrInvalidArgument
func ParseCriterion(name string) (Criterion, error) {
	c := Criterion(strings.TrimSpace(name))
	switch c {
	case ByName, ByRating, ByNumRated:
		return c, nil
	}
	return "", fmt.Errorf("%w: unknown sort criterion %q", ErrInvalidArgument, name)
}

// Sorter 依語系比較名稱的排序器。collate.Collator 不支援並行，呼叫端需自行序列化。
type Sorter struct {
	collator *collate.Collator
}

// NewSorter 建立指定語系的排序器
func NewSorter(tag language.Tag) *Sorter {
	return &Sorter{collator: collate.New(tag)}
}

// NewSorterForLocale 以語系字串建立排序器，無法解析時回傳 ErrInvalidArgument
func NewSorterForLocale(locale string) (*Sorter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: locale %q: %v", ErrInvalidArgument, locale, err)
	}
	return NewSorter(tag), nil
}

// CompareNames 依語系比較兩個字串
func (s *Sorter) CompareNames(a, b string) int {
	return s.collator.CompareString(a, b)
}

// Compare 依條件比較兩個食譜，回傳 -1、0 或 1
func (s *Sorter) Compare(c Criterion, a, b *Recipe) (int, error) {
	switch c {
	case ByName:
		return s.CompareNames(a.Name, b.Name), nil
	case ByRating:
		return compareRating(a, b), nil
	case ByNumRated:
		return compareDesc(a.NumRated, b.NumRated), nil
	}
	return 0, fmt.Errorf("%w: unknown sort criterion %q", ErrInvalidArgument, c)
}

// compareRating 評分由高到低；評分相近時評分人數多者在前，仍相同再比原始評分
func compareRating(a, b *Recipe) int {
	if math.Abs(a.Rating-b.Rating) >= ratingEpsilon {
		if a.Rating > b.Rating {
			return -1
		}
		return 1
	}
	if cmp := compareDesc(a.NumRated, b.NumRated); cmp != 0 {
		return cmp
	}
	switch {
	case a.Rating > b.Rating:
		return -1
	case a.Rating < b.Rating:
		return 1
	}
	return 0
}

func compareDesc(a, b int) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// SortIDs 依條件排序食譜 ID，回傳新切片；相同者維持原順序
func (s *Sorter) SortIDs(idx *Index, c Criterion, ids []string) ([]string, error) {
	if _, err := ParseCriterion(string(c)); err != nil {
		return nil, err
	}

	recipes := make([]*Recipe, len(ids))
	for i, id := range ids {
		r, err := idx.Get(id)
		if err != nil {
			return nil, err
		}
		recipes[i] = r
	}

	sort.SliceStable(recipes, func(i, j int) bool {
		cmp, _ := s.Compare(c, recipes[i], recipes[j])
		return cmp < 0
	})

	out := make([]string, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out, nil
}
