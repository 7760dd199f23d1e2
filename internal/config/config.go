// Package config loads the bot configuration from the process environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config represents the application configuration
type Config struct {
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	OpenAI    OpenAIConfig    `env:",prefix=OPENAI_"`
	CoinGecko CoinGeckoConfig `env:",prefix=COINGECKO_"`
	Logging   LoggingConfig   `env:",prefix=LOG_"`

	MarketRefreshInterval time.Duration `env:"MARKET_REFRESH_INTERVAL,default=5m"`
	GasCacheTTL           time.Duration `env:"GAS_CACHE_TTL,default=1m"`
	HTTPTimeout           time.Duration `env:"HTTP_TIMEOUT,default=10s"`

	ExchangeFallback bool   `env:"EXCHANGE_FALLBACK,default=false"`
	SymbolsFile      string `env:"SYMBOLS_FILE"`

	// HTTPAddr enables the status API when set, e.g. ":8080"
	HTTPAddr string `env:"HTTP_ADDR"`
}

// OpenAIConfig configures the shill generator. An empty APIKey disables it.
type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	BaseURL string `env:"BASE_URL,default=https://api.deepseek.com"`
	Model   string `env:"MODEL,default=deepseek-chat"`
}

type CoinGeckoConfig struct {
	BaseURL string `env:"BASE_URL,default=https://api.coingecko.com/api/v3"`
	APIKey  string `env:"API_KEY"`
}

type LoggingConfig struct {
	Level  string `env:"LEVEL,default=info"`
	Format string `env:"FORMAT,default=text"`
}

var (
	// ErrInvalidInterval signals a non-positive refresh interval
	ErrInvalidInterval = errors.New("market refresh interval must be positive")
	// ErrInvalidTTL signals a non-positive gas cache TTL
	ErrInvalidTTL = errors.New("gas cache ttl must be positive")
)

// LoadDotEnv loads variables from envFile without overriding the environment.
// A missing default ".env" is ignored; an explicitly named file must exist.
func LoadDotEnv(envFile string, explicit bool) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

// Load decodes the configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MarketRefreshInterval <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidInterval, c.MarketRefreshInterval)
	}
	if c.GasCacheTTL <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidTTL, c.GasCacheTTL)
	}
	return nil
}

// ShillEnabled reports whether the OpenAI-backed shill command is configured.
func (c *Config) ShillEnabled() bool {
	return c.OpenAI.APIKey != ""
}
