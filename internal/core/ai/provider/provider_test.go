package provider

import (
	"context"
	"testing"

	"ingredient-guide/internal/core/ai"
	"ingredient-guide/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestNewOpenRouter(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Generator.Provider = OpenRouter
	cfg.OpenRouter.APIKey = "sk-or-test"

	gen, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &ai.BreakerGenerator{}, gen)
}

func TestNewGemini(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Gemini.APIKey = "gm-test-key"

	gen, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &ai.BreakerGenerator{}, gen)
}

func TestNewMissingKey(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Gemini.APIKey = ""

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Generator.Provider = "llama"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
