package ingredient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SeedResult 單一名稱的預載結果
type SeedResult string

const (
	SeedSaved   SeedResult = "saved"
	SeedSkipped SeedResult = "skipped"
	SeedFailed  SeedResult = "failed"
)

// SeedItem 單一名稱的處理紀錄
type SeedItem struct {
	Name   string
	Key    string
	Result SeedResult
	Reason string
}

// SeedReport 預載彙總
type SeedReport struct {
	Items   []SeedItem
	Saved   int
	Skipped int
	Failed  int
}

// Total 處理的名稱數
func (r *SeedReport) Total() int {
	return len(r.Items)
}

// Seeder 以同步寫入方式預先填充儲存層
type Seeder struct {
	store       RecordStore
	generator   Generator
	interval    time.Duration
	concurrency int
	maxLen      int
}

// SeederOption 設定 Seeder
type SeederOption func(*Seeder)

// WithSeedInterval 兩次生成器呼叫之間的最小間隔
func WithSeedInterval(d time.Duration) SeederOption {
	return func(s *Seeder) {
		if d >= 0 {
			s.interval = d
		}
	}
}

// WithSeedConcurrency 同時處理的名稱數
func WithSeedConcurrency(n int) SeederOption {
	return func(s *Seeder) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewSeeder 創建預載器
func NewSeeder(store RecordStore, generator Generator, opts ...SeederOption) *Seeder {
	s := &Seeder{
		store:       store,
		generator:   generator,
		interval:    time.Second,
		concurrency: 1,
		maxLen:      DefaultMaxQueryLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed 依序處理名稱；個別失敗只計數，只有 ctx 取消才返回錯誤
func (s *Seeder) Seed(ctx context.Context, names []string) (*SeedReport, error) {
	items := make([]SeedItem, len(names))

	var pace <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		pace = ticker.C
	}

	var paceMu sync.Mutex
	wait := func(ctx context.Context) error {
		if pace == nil {
			return nil
		}
		paceMu.Lock()
		defer paceMu.Unlock()
		select {
		case <-pace:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			item, err := s.seedOne(gctx, name, wait)
			if err != nil {
				return err
			}
			items[i] = item
			common.LogInfo("預載進度",
				zap.String("progress", fmt.Sprintf("%d/%d", i+1, len(names))),
				zap.String("name", name),
				zap.String("result", string(item.Result)),
				zap.String("reason", item.Reason),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &SeedReport{Items: items}
	for _, item := range items {
		switch item.Result {
		case SeedSaved:
			report.Saved++
		case SeedSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}
	return report, nil
}

func (s *Seeder) seedOne(ctx context.Context, name string, wait func(context.Context) error) (SeedItem, error) {
	q := Normalize(name, s.maxLen)
	item := SeedItem{Name: q.Display, Key: q.Key}
	if q.Sanitized == "" {
		return failed(item, "empty name"), nil
	}

	if _, err := s.store.Get(ctx, q.Key); err == nil {
		item.Result = SeedSkipped
		item.Reason = "already exists"
		return item, nil
	} else if !errors.Is(err, common.ErrRecordNotFound) {
		return failed(item, err.Error()), nil
	}

	if err := wait(ctx); err != nil {
		return item, err
	}

	judgment, err := s.generator.Generate(ctx, q.Sanitized)
	if err != nil {
		if ctx.Err() != nil {
			return item, ctx.Err()
		}
		return failed(item, err.Error()), nil
	}
	if judgment == nil || !judgment.IsValid {
		return failed(item, "judged invalid"), nil
	}

	key := CanonicalKey(judgment.CorrectedName)
	item.Key = key
	if key == "" {
		return failed(item, "empty corrected name"), nil
	}
	if key != q.Key {
		if _, err := s.store.Get(ctx, key); err == nil {
			item.Result = SeedSkipped
			item.Reason = fmt.Sprintf("exists as %q", key)
			return item, nil
		}
	}

	record := judgment.Record(key)
	if err := record.Validate(); err != nil {
		return failed(item, err.Error()), nil
	}
	if err := s.store.Upsert(ctx, key, record); err != nil {
		return failed(item, err.Error()), nil
	}

	item.Result = SeedSaved
	return item, nil
}

func failed(item SeedItem, reason string) SeedItem {
	item.Result = SeedFailed
	item.Reason = reason
	return item
}
