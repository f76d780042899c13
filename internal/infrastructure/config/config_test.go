package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Search.MaxQueryLength)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "gemini", cfg.Generator.Provider)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "ingredient:", cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowOrigins)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"unknown store":      func(v *viper.Viper) { v.Set("store.driver", "sqlite") },
		"postgres w/o dsn":   func(v *viper.Viper) { v.Set("store.driver", "postgres") },
		"tiered w/o dsn":     func(v *viper.Viper) { v.Set("store.driver", "tiered") },
		"unknown provider":   func(v *viper.Viper) { v.Set("generator.provider", "llama") },
		"zero rate requests": func(v *viper.Viper) { v.Set("rate_limit.requests", 0) },
		"zero workers":       func(v *viper.Viper) { v.Set("writeback.workers", 0) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			mutate(v)
			_, err := load(v)
			assert.Error(t, err)
		})
	}
}

func TestRateLimitDisabledSkipsValidation(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("rate_limit.enabled", false)
	v.Set("rate_limit.requests", 0)

	cfg, err := load(v)
	require.NoError(t, err)
	assert.False(t, cfg.RateLimit.Enabled)
}
