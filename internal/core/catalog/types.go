// Package catalog 食譜目錄核心：正規化、索引、分類、搜尋、排序與篩選。
package catalog

// Recipe 食譜資料，欄位名稱與爬蟲匯出的 JSON 一致
type Recipe struct {
	ID          string   `json:"ID"`
	Name        string   `json:"Name"`
	Rating      float64  `json:"Rating"`
	NumRated    int      `json:"NumRated"`
	Link        string   `json:"Link,omitempty"`
	Cuisine     []string `json:"Cuisine"`
	Course      []string `json:"Course"`
	Keywords    []string `json:"Keywords"`
	Ingredients []string `json:"Ingredients"`

	// 建立索引時補上的衍生欄位
	NormalizedName        string   `json:"-"`
	NormalizedKeywords    []string `json:"-"`
	NormalizedIngredients []string `json:"-"`
	Visible               bool     `json:"visible"`
	Favorited             bool     `json:"favorited"`
}

// augment 計算正規化欄位，並重設可變狀態
func (r *Recipe) augment() {
	r.NormalizedName = Normalize(r.Name, false)
	r.NormalizedKeywords = normalizeAll(r.Keywords)
	r.NormalizedIngredients = normalizeAll(r.Ingredients)
	r.Visible = true
	r.Favorited = false
}

// Group 課程或料理類別的分組
type Group struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	MemberIDs   []string `json:"member_ids"`

	members map[string]struct{}
}

func newGroup(key, displayName string) *Group {
	return &Group{
		Key:         key,
		DisplayName: displayName,
		members:     make(map[string]struct{}),
	}
}

// add 加入食譜 ID，同一分組內不重複
func (g *Group) add(id string) {
	if _, ok := g.members[id]; ok {
		return
	}
	g.members[id] = struct{}{}
	g.MemberIDs = append(g.MemberIDs, id)
}

// Contains 判斷食譜是否屬於此分組
func (g *Group) Contains(id string) bool {
	_, ok := g.members[id]
	return ok
}

// Collision 兩個不同標籤正規化後得到相同的 key
type Collision struct {
	Key      string
	Existing string
	Incoming string
}
