package store

import (
	"context"
	"fmt"

	"ingredient-guide/internal/infrastructure/config"
	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
)

// Handle 依設定開啟的儲存與其釋放函式
type Handle struct {
	Backend
	closers []func() error
}

// Close 依開啟的反序釋放資源
func (h *Handle) Close() error {
	var firstErr error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats 底層儲存的統計，不支援時為 nil
func (h *Handle) Stats() map[string]interface{} {
	if s, ok := h.Backend.(interface{ GetStats() map[string]interface{} }); ok {
		return s.GetStats()
	}
	return nil
}

// Open 依 store.driver 建立儲存
func Open(ctx context.Context, cfg *config.Config) (*Handle, error) {
	h := &Handle{}

	openRedis := func() (*RedisStore, error) {
		client, err := NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, client.Close)
		return NewRedisStore(client, cfg.Redis.KeyPrefix), nil
	}

	openPostgres := func() (*PostgresStore, error) {
		pg, err := OpenPostgres(ctx, cfg.Postgres.DSN, PostgresOptions{
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
			ConnLifetime: cfg.Postgres.ConnLifetime,
		})
		if err != nil {
			return nil, err
		}
		h.closers = append(h.closers, pg.Close)
		return pg, nil
	}

	switch cfg.Store.Driver {
	case "memory":
		mem := NewMemoryStore()
		h.Backend = mem
		h.closers = append(h.closers, mem.Close)
	case "redis":
		rs, err := openRedis()
		if err != nil {
			return nil, err
		}
		h.Backend = rs
	case "postgres":
		pg, err := openPostgres()
		if err != nil {
			return nil, err
		}
		h.Backend = pg
	case "tiered":
		pg, err := openPostgres()
		if err != nil {
			return nil, err
		}
		rs, err := openRedis()
		if err != nil {
			_ = h.Close()
			return nil, err
		}
		h.Backend = NewTieredStore(rs, pg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	common.LogInfo("紀錄儲存已開啟", zap.String("driver", cfg.Store.Driver))
	return h, nil
}
