// Package store 提供食材紀錄的儲存實作：記憶體、Redis、Postgres 與兩者組合的分層儲存。
//
// 所有實作都以正規化名稱為唯一鍵，Upsert 為插入或覆寫，紀錄沒有過期時間。
package store

import (
	"context"
	"sync"
	"sync/atomic"

	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 行程內的紀錄儲存
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]common.IngredientRecord
	stats memoryStats
}

// memoryStats 以 atomic 存取，讀取路徑只需讀鎖
type memoryStats struct {
	hits    int64
	misses  int64
	upserts int64
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		store: make(map[string]common.IngredientRecord),
	}
}

// Get 依鍵讀取
func (m *MemoryStore) Get(ctx context.Context, key string) (*common.IngredientRecord, error) {
	m.mu.RLock()
	rec, ok := m.store[key]
	if ok {
		rec = cloneRecord(rec)
	}
	m.mu.RUnlock()

	if !ok {
		atomic.AddInt64(&m.stats.misses, 1)
		return nil, common.ErrRecordNotFound
	}
	atomic.AddInt64(&m.stats.hits, 1)
	out := rec
	return &out, nil
}

// Upsert 插入或覆寫
func (m *MemoryStore) Upsert(ctx context.Context, key string, record common.IngredientRecord) error {
	record = cloneRecord(record)
	record.CanonicalName = key

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[key] = record
	atomic.AddInt64(&m.stats.upserts, 1)
	return nil
}

// Ping 永遠可用
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Len 紀錄數量
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// Keys 目前所有的鍵
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.store))
	for k := range m.store {
		keys = append(keys, k)
	}
	return keys
}

// GetStats 獲取統計信息
func (m *MemoryStore) GetStats() map[string]interface{} {
	hits := atomic.LoadInt64(&m.stats.hits)
	misses := atomic.LoadInt64(&m.stats.misses)

	ratio := 0.0
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      m.Len(),
		"hits":      hits,
		"misses":    misses,
		"upserts":   atomic.LoadInt64(&m.stats.upserts),
		"hit_ratio": ratio,
	}
}

// Close 關閉儲存
func (m *MemoryStore) Close() error {
	common.LogInfo("記憶體儲存已關閉",
		zap.Int("size", m.Len()),
		zap.Int64("命中次數", atomic.LoadInt64(&m.stats.hits)),
		zap.Int64("未命中次數", atomic.LoadInt64(&m.stats.misses)),
	)
	return nil
}

// cloneRecord 複製月份切片，避免呼叫端共用底層陣列
func cloneRecord(rec common.IngredientRecord) common.IngredientRecord {
	if rec.Seasonal.SeasonMonths != nil {
		rec.Seasonal.SeasonMonths = append([]int(nil), rec.Seasonal.SeasonMonths...)
	}
	return rec
}
