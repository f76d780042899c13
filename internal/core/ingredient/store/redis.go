package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ingredient-guide/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

// RedisStore 以 Redis 字串鍵保存 JSON 紀錄，不設 TTL
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisClient 建立並測試 Redis 連線
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore 創建 Redis 儲存
func NewRedisStore(client redis.Cmdable, keyPrefix string) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get 依鍵讀取
func (s *RedisStore) Get(ctx context.Context, key string) (*common.IngredientRecord, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	var rec common.IngredientRecord
	if err := common.ParseJSONBytes(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	rec.CanonicalName = key
	return &rec, nil
}

// Upsert 插入或覆寫，SET 本身即為 last-writer-wins
func (s *RedisStore) Upsert(ctx context.Context, key string, record common.IngredientRecord) error {
	record.CanonicalName = key
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := s.client.Set(ctx, s.redisKey(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set record: %w", err)
	}
	return nil
}

// Ping 檢查連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) redisKey(key string) string {
	return s.keyPrefix + key
}
