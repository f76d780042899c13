package store

import (
	"context"
	"errors"

	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
)

// Backend 可被分層儲存組合的儲存
type Backend interface {
	Get(ctx context.Context, key string) (*common.IngredientRecord, error)
	Upsert(ctx context.Context, key string, record common.IngredientRecord) error
	Ping(ctx context.Context) error
}

// TieredStore 快速層（Redis）在前、持久層（Postgres）在後
type TieredStore struct {
	fast    Backend
	durable Backend
}

// NewTieredStore 創建分層儲存
func NewTieredStore(fast, durable Backend) *TieredStore {
	return &TieredStore{fast: fast, durable: durable}
}

// Get 先查快速層，未命中或出錯時查持久層並回填
func (t *TieredStore) Get(ctx context.Context, key string) (*common.IngredientRecord, error) {
	rec, err := t.fast.Get(ctx, key)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, common.ErrRecordNotFound) {
		common.LogWarn("Fast tier lookup failed", zap.String("key", key), zap.Error(err))
	}

	rec, err = t.durable.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := t.fast.Upsert(ctx, key, *rec); err != nil {
		common.LogWarn("Fast tier backfill failed", zap.String("key", key), zap.Error(err))
	}
	return rec, nil
}

// Upsert 先寫持久層，快速層失敗只記錄
func (t *TieredStore) Upsert(ctx context.Context, key string, record common.IngredientRecord) error {
	if err := t.durable.Upsert(ctx, key, record); err != nil {
		return err
	}
	if err := t.fast.Upsert(ctx, key, record); err != nil {
		common.LogWarn("Fast tier write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// Ping 以持久層為準
func (t *TieredStore) Ping(ctx context.Context) error {
	if err := t.fast.Ping(ctx); err != nil {
		common.LogWarn("Fast tier ping failed", zap.Error(err))
	}
	return t.durable.Ping(ctx)
}
