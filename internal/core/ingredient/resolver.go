// Package ingredient 將自由輸入的食材名稱解析為保存、期限與當令資訊。
//
// 解析流程採 cache-aside：先以查詢字串查儲存層，未命中才呼叫生成器，
// 再以生成器校正後的名稱做第二次查找，最後非同步寫回。
package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ingredient-guide/internal/infrastructure/metrics"
	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
)

// RecordStore 以正規化名稱為鍵的持久化儲存
type RecordStore interface {
	// Get 查無資料時返回 common.ErrRecordNotFound
	Get(ctx context.Context, key string) (*common.IngredientRecord, error)
	// Upsert 以 key 插入或覆寫
	Upsert(ctx context.Context, key string, record common.IngredientRecord) error
}

// Generator 對清理後的名稱產生判斷結果
type Generator interface {
	Generate(ctx context.Context, name string) (*common.IngredientJudgment, error)
}

// WriteBacker 接收不需等待的寫回工作
type WriteBacker interface {
	Submit(key string, record common.IngredientRecord) bool
}

// Resolver 解析流程的協調者，本身不持有狀態，可並行使用
type Resolver struct {
	store           RecordStore
	generator       Generator
	writer          WriteBacker
	metrics         *metrics.Metrics
	maxQueryLength  int
	generateTimeout time.Duration
}

// ResolverOption 設定 Resolver
type ResolverOption func(*Resolver)

// WithMetrics 設定指標
func WithMetrics(m *metrics.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithMaxQueryLength 設定查詢截斷長度
func WithMaxQueryLength(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxQueryLength = n
		}
	}
}

// WithGenerateTimeout 設定生成器呼叫的逾時
func WithGenerateTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.generateTimeout = d
		}
	}
}

// NewResolver 創建解析器
func NewResolver(store RecordStore, generator Generator, writer WriteBacker, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:           store,
		generator:       generator,
		writer:          writer,
		maxQueryLength:  DefaultMaxQueryLength,
		generateTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve 解析一次查詢，錯誤為 ErrInvalidInput 或 ErrUpstreamFailure
func (r *Resolver) Resolve(ctx context.Context, rawQuery string) (*common.ResolutionOutcome, error) {
	outcome, stage, err := r.resolve(ctx, rawQuery)
	if err != nil {
		r.metrics.ObserveResolution(metrics.OutcomeError)
		return nil, err
	}
	r.metrics.ObserveResolution(stage)
	return outcome, nil
}

func (r *Resolver) resolve(ctx context.Context, rawQuery string) (*common.ResolutionOutcome, string, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return nil, "", common.ErrInvalidInput
	}

	q := Normalize(rawQuery, r.maxQueryLength)
	if q.Sanitized == "" {
		return nil, "", common.ErrInvalidInput.Wrap(fmt.Errorf("query %q has no letters or digits", q.Display))
	}

	// 主要快取查找
	rec, err := r.store.Get(ctx, q.Key)
	switch {
	case err == nil:
		common.LogCacheHit("primary", q.Key)
		return common.OutcomeFromRecord(*rec, true), metrics.OutcomeCacheHit, nil
	case !errors.Is(err, common.ErrRecordNotFound):
		return nil, "", common.ErrUpstreamFailure.Wrap(fmt.Errorf("store lookup %q: %w", q.Key, err))
	}
	common.LogCacheMiss("primary", q.Key)

	judgment, err := r.generate(ctx, q.Sanitized)
	if err != nil {
		return nil, "", common.ErrUpstreamFailure.Wrap(err)
	}

	// 無效判斷不寫入，之後的相同查詢會重新判斷
	if !judgment.IsValid {
		common.LogInfo("Generator judged query invalid",
			zap.String("query", q.Display),
			zap.String("suggestion", judgment.Suggestion),
		)
		return common.OutcomeFromJudgment(judgment), metrics.OutcomeInvalid, nil
	}

	key := CanonicalKey(judgment.CorrectedName)
	if key == "" {
		return nil, "", common.ErrUpstreamFailure.Wrap(errors.New("generator returned empty corrected name"))
	}

	// 以校正名稱再查一次，避免同義詞或並行請求重複寫入
	existing, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		common.LogCacheHit("dedupe", key)
		return common.OutcomeFromRecord(*existing, true), metrics.OutcomeDedupeHit, nil
	case !errors.Is(err, common.ErrRecordNotFound):
		common.LogWarn("Dedupe lookup failed, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	record := judgment.Record(key)
	if err := record.Validate(); err != nil {
		return nil, "", common.ErrUpstreamFailure.Wrap(fmt.Errorf("malformed generator record: %w", err))
	}

	r.writer.Submit(key, record)

	outcome := common.OutcomeFromRecord(record, false)
	outcome.CorrectedName = judgment.CorrectedName
	return outcome, metrics.OutcomeGenerated, nil
}

// generate 呼叫生成器；呼叫者離開後仍讓呼叫跑完，只受逾時限制
func (r *Resolver) generate(ctx context.Context, name string) (*common.IngredientJudgment, error) {
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.generateTimeout)
	defer cancel()

	start := time.Now()
	judgment, err := r.generator.Generate(genCtx, name)
	if err == nil && judgment == nil {
		err = errors.New("generator returned no judgment")
	}
	r.metrics.ObserveGenerator(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("generate %q: %w", name, err)
	}
	return judgment, nil
}
