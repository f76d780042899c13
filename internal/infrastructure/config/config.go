package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Search     SearchConfig     `mapstructure:"search"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Generator  GeneratorConfig  `mapstructure:"generator"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Store      StoreConfig      `mapstructure:"store"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	WriteBack  WriteBackConfig  `mapstructure:"writeback"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	LogLevel   string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowOrigins   []string      `mapstructure:"allow_origins"`
}

// SearchConfig 查詢設定
type SearchConfig struct {
	MaxQueryLength int `mapstructure:"max_query_length"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// GeneratorConfig 生成器共用設定
type GeneratorConfig struct {
	Provider        string        `mapstructure:"provider"` // gemini | openrouter
	Timeout         time.Duration `mapstructure:"timeout"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// GeminiConfig Gemini 配置
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	BaseURL   string `mapstructure:"base_url"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// StoreConfig 紀錄儲存設定
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory | redis | postgres | tiered
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// PostgresConfig Postgres 配置
type PostgresConfig struct {
	DSN          string        `mapstructure:"dsn"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	ConnLifetime time.Duration `mapstructure:"conn_lifetime"`
}

// WriteBackConfig 非同步寫回設定
type WriteBackConfig struct {
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queue_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SeedConfig 預載設定
type SeedConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Interval    time.Duration `mapstructure:"interval"`
}

// MetricsConfig 指標設定
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時只用環境變數
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定常用環境變量
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")
	_ = v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	_ = v.BindEnv("generator.provider", "GENERATOR_PROVIDER")
	_ = v.BindEnv("store.driver", "STORE_DRIVER")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("postgres.dsn", "DATABASE_URL")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	return load(v)
}

// Default 只使用預設值建立設定
func Default() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "ingredient-guide")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "45s")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("search.max_query_length", 50)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", "60s")

	// 生成器設定
	v.SetDefault("generator.provider", "gemini")
	v.SetDefault("generator.timeout", "30s")
	v.SetDefault("generator.breaker_failures", 5)
	v.SetDefault("generator.breaker_timeout", "30s")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("openrouter.model", "google/gemini-2.5-flash")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.max_tokens", 1500)

	// 儲存設定
	v.SetDefault("store.driver", "memory")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "ingredient:")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.conn_lifetime", "5m")

	v.SetDefault("writeback.workers", 4)
	v.SetDefault("writeback.queue_size", 256)
	v.SetDefault("writeback.timeout", "10s")

	v.SetDefault("seed.concurrency", 1)
	v.SetDefault("seed.interval", "1s")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if config.Search.MaxQueryLength <= 0 {
		return fmt.Errorf("invalid search max query length")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	switch config.Generator.Provider {
	case "gemini", "openrouter":
	default:
		return fmt.Errorf("unknown generator provider %q", config.Generator.Provider)
	}

	switch config.Store.Driver {
	case "memory":
	case "redis":
		if config.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for store driver %q", config.Store.Driver)
		}
	case "postgres":
		if config.Postgres.DSN == "" {
			return fmt.Errorf("postgres dsn is required for store driver %q", config.Store.Driver)
		}
	case "tiered":
		if config.Redis.Addr == "" || config.Postgres.DSN == "" {
			return fmt.Errorf("tiered store requires both redis addr and postgres dsn")
		}
	default:
		return fmt.Errorf("unknown store driver %q", config.Store.Driver)
	}

	// 驗證寫回設定
	if config.WriteBack.Workers <= 0 {
		return fmt.Errorf("invalid writeback workers")
	}
	if config.WriteBack.QueueSize <= 0 {
		return fmt.Errorf("invalid writeback queue size")
	}

	return nil
}
