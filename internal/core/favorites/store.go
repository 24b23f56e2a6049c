// Package favorites 保存使用者收藏的食譜 ID，每次變更都同步寫回 Storage。
package favorites

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultKey 預設儲存鍵
const DefaultKey = "favorites"

// Store 收藏集合，可並行使用
type Store struct {
	mu      sync.RWMutex
	storage Storage
	key     string
	ids     map[string]bool
}

// New 從 Storage 載入收藏。key 不存在視為空集合，內容格式錯誤回傳 catalog.ErrParse。
func New(ctx context.Context, storage Storage, key string) (*Store, error) {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if key == "" {
		key = DefaultKey
	}

	s := &Store{storage: storage, key: key, ids: make(map[string]bool)}
	if err := s.reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) reload(ctx context.Context) error {
	data, err := s.storage.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	ids, err := decode(data)
	if err != nil {
		return fmt.Errorf("favorites %q: %w", s.key, err)
	}

	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()

	common.LogDebug("favorites loaded", zap.String("key", s.key), zap.Int("count", len(ids)))
	return nil
}

// Toggle 切換收藏狀態並寫回，回傳切換後是否為收藏。
// 寫入失敗時還原記憶體狀態並回傳包裝 catalog.ErrPersist 的錯誤。
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, fmt.Errorf("empty recipe id: %w", catalog.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := !s.ids[id]
	s.set(id, now)

	if err := s.persistLocked(ctx); err != nil {
		s.set(id, !now)
		common.LogError("failed to persist favorites",
			zap.String("key", s.key),
			zap.String("recipe_id", id),
			zap.Error(err),
		)
		return !now, err
	}
	return now, nil
}

// Prune 移除不在 keep 中的收藏，有變更時寫回一次，回傳被移除的 ID
func (s *Store) Prune(ctx context.Context, keep func(id string) bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id := range s.ids {
		if !keep(id) {
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	sort.Strings(removed)

	for _, id := range removed {
		delete(s.ids, id)
	}
	if err := s.persistLocked(ctx); err != nil {
		for _, id := range removed {
			s.ids[id] = true
		}
		return nil, err
	}
	return removed, nil
}

// IsFavorite 是否為收藏
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ids[id]
}

// All 排序後的收藏 ID
func (s *Store) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len 收藏數量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Store) set(id string, on bool) {
	if on {
		s.ids[id] = true
	} else {
		delete(s.ids, id)
	}
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := common.ToJSON(s.ids)
	if err != nil {
		return fmt.Errorf("encode favorites: %w: %w", catalog.ErrPersist, err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save favorites: %w: %w", catalog.ErrPersist, err)
	}
	return nil
}

// decode 解析 {"id": true}，值為 false 的項目忽略
func decode(data []byte) (map[string]bool, error) {
	ids := make(map[string]bool)
	if len(strings.TrimSpace(string(data))) == 0 {
		return ids, nil
	}

	var raw map[string]bool
	if err := common.ParseJSONBytes(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", catalog.ErrParse, err)
	}
	for id, on := range raw {
		if on {
			ids[id] = true
		}
	}
	return ids, nil
}
