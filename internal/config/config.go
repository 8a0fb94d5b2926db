// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/macrofuel/macrofuel-api/internal/genai"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the fact-cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	FlashModel string `yaml:"flash_model" mapstructure:"flash_model"`
	ProModel   string `yaml:"pro_model" mapstructure:"pro_model"`
}

// OpenAIConfig holds settings for an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	MiniModel  string `yaml:"mini_model" mapstructure:"mini_model"`
	LargeModel string `yaml:"large_model" mapstructure:"large_model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// PipelineConfig configures the fallback chain.
type PipelineConfig struct {
	// Chain overrides the default provider/model fallback order.
	Chain []genai.Spec `yaml:"chain" mapstructure:"chain"`
	// AttemptTimeoutSecs bounds each individual provider call.
	AttemptTimeoutSecs int `yaml:"attempt_timeout_secs" mapstructure:"attempt_timeout_secs"`
	// SeedPath points at a curated facts YAML loaded by `facts seed`.
	SeedPath string `yaml:"seed_path" mapstructure:"seed_path"`
}

// ServerConfig configures the HTTP facade.
type ServerConfig struct {
	Port          int `yaml:"port" mapstructure:"port"`
	RatePerSecond int `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Chain returns the configured fallback order, or the default: the primary
// provider's tiers cheap-to-large, then each secondary provider's.
func (c *Config) Chain() []genai.Spec {
	if len(c.Pipeline.Chain) > 0 {
		return c.Pipeline.Chain
	}
	return []genai.Spec{
		{Provider: "gemini", Model: c.Gemini.FlashModel, Vision: true},
		{Provider: "gemini", Model: c.Gemini.ProModel, Vision: true},
		{Provider: "openai", Model: c.OpenAI.MiniModel, Vision: true},
		{Provider: "openai", Model: c.OpenAI.LargeModel, Vision: true},
		{Provider: "anthropic", Model: c.Anthropic.Model, Vision: true},
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MACROFUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so environment-only values survive
	// Unmarshal.
	v.SetDefault("gemini.key", "")
	v.SetDefault("openai.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "macrofuel.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 10)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.flash_model", "gemini-2.5-flash")
	v.SetDefault("gemini.pro_model", "gemini-2.5-pro")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.mini_model", "gpt-4o-mini")
	v.SetDefault("openai.large_model", "gpt-4o")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("pipeline.attempt_timeout_secs", 45)
	v.SetDefault("pipeline.seed_path", "facts_seed.yaml")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
