// Package provider 依設定建立生成器。
package provider

import (
	"context"
	"fmt"

	"ingredient-guide/internal/core/ai"
	"ingredient-guide/internal/core/ai/gemini"
	"ingredient-guide/internal/core/ai/openrouter"
	"ingredient-guide/internal/infrastructure/config"
	"ingredient-guide/internal/pkg/common"

	"go.uber.org/zap"
)

// 支援的生成器
const (
	Gemini     = "gemini"
	OpenRouter = "openrouter"
)

// New 建立設定指定的生成器，外層包上斷路器
func New(ctx context.Context, cfg *config.Config) (ai.Generator, error) {
	var (
		gen   ai.Generator
		model string
	)

	switch cfg.Generator.Provider {
	case Gemini:
		c, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		gen, model = c, c.Model()
	case OpenRouter:
		c, err := openrouter.NewClient(openrouter.Options{
			APIKey:    cfg.OpenRouter.APIKey,
			Model:     cfg.OpenRouter.Model,
			BaseURL:   cfg.OpenRouter.BaseURL,
			MaxTokens: cfg.OpenRouter.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		gen, model = c, c.Model()
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Generator.Provider)
	}

	common.LogInfo("Generator initialized",
		zap.String("provider", cfg.Generator.Provider),
		zap.String("model", model),
		zap.Uint32("breaker_failures", cfg.Generator.BreakerFailures),
	)

	return ai.NewBreakerGenerator(cfg.Generator.Provider, gen, cfg.Generator.BreakerFailures, cfg.Generator.BreakerTimeout), nil
}
