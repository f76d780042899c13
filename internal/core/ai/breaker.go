// Package ai 包含生成器共用的提示詞、回應解析與斷路器。
package ai

import (
	"context"
	"fmt"
	"time"

	"ingredient-guide/internal/pkg/common"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Generator 對清理後的食材名稱產生判斷
type Generator interface {
	Generate(ctx context.Context, name string) (*common.IngredientJudgment, error)
}

// BreakerGenerator 在連續失敗後短路生成器呼叫
type BreakerGenerator struct {
	next    Generator
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerGenerator 包裝生成器；maxFailures 為 0 時視為 1
func NewBreakerGenerator(name string, next Generator, maxFailures uint32, timeout time.Duration) *BreakerGenerator {
	if maxFailures == 0 {
		maxFailures = 1
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("Generator breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &BreakerGenerator{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Generate 經由斷路器呼叫下層生成器
func (b *BreakerGenerator) Generate(ctx context.Context, name string) (*common.IngredientJudgment, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("breaker (%s): %w", b.breaker.Name(), err)
	}
	return res.(*common.IngredientJudgment), nil
}

// State 目前斷路器狀態
func (b *BreakerGenerator) State() gobreaker.State {
	return b.breaker.State()
}
