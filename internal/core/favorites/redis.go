package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisOptions Redis 後端設定
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStorage 以 Redis 字串值保存收藏
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage 連線並測試 Redis
func NewRedisStorage(ctx context.Context, opts RedisOptions) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	// 測試連接
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStorageWithClient(client, opts.Prefix), nil
}

// NewRedisStorageWithClient 使用既有的 client
func NewRedisStorageWithClient(client *redis.Client, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = "recipe-catalog"
	}
	return &RedisStorage{client: client, prefix: prefix}
}

// Load 讀取資料，redis.Nil 代表尚未保存
func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Save 寫入資料，不設 TTL
func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Close 關閉連線
func (s *RedisStorage) Close() error {
	return s.client.Close()
}

func (s *RedisStorage) redisKey(key string) string {
	return fmt.Sprintf("%s:favorites:%s", s.prefix, key)
}
