package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server     ServerConfig       `yaml:"server"`
	Birdeye    BirdeyeConfig      `yaml:"birdeye"`
	Helius     HeliusConfig       `yaml:"helius"`
	RPC        RPCConfig          `yaml:"rpc"`
	Aggregator AggregatorConfig   `yaml:"aggregator"`
	PriceSvc   PriceServiceConfig `yaml:"priceService"`
	Logging    LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port             string   `yaml:"port"`
	ReadTimeoutSec   int      `yaml:"readTimeoutSec"`
	WriteTimeoutSec  int      `yaml:"writeTimeoutSec"`
	IdleTimeoutSec   int      `yaml:"idleTimeoutSec"`
	CORSAllowOrigins []string `yaml:"corsAllowOrigins"`
}

// BirdeyeConfig holds the configuration for the Birdeye client.
type BirdeyeConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateBurst            int     `yaml:"rateBurst"`
}

// HeliusConfig holds the configuration for the Helius DAS client.
type HeliusConfig struct {
	RPCURL               string `yaml:"rpcURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// RPCConfig holds the configuration for the Solana node RPC client.
type RPCConfig struct {
	Endpoint             string `yaml:"endpoint"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// AggregatorConfig holds aggregation-layer settings.
type AggregatorConfig struct {
	// DefaultProvider selects the strategy used when a request does not
	// name one: "birdeye", "helius" or "onchain".
	DefaultProvider string `yaml:"defaultProvider"`
	// MaxConcurrentBalanceLookups bounds the per-address balance fan-out.
	MaxConcurrentBalanceLookups int `yaml:"maxConcurrentBalanceLookups"`
}

// PriceServiceConfig holds configuration for the price resolver.
type PriceServiceConfig struct {
	CacheTTLMinutes          int `yaml:"cacheTTLMinutes"`
	CacheCleanupMinutes      int `yaml:"cacheCleanupMinutes"`
	MaxTokensPerBatchRequest int `yaml:"maxTokensPerBatchRequest"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level       string `yaml:"level"` // "debug", "info", "warn", "error"
	Development bool   `yaml:"development"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if cfg.Birdeye.APIKey == "" {
		// Not fatal: requests without a key fail server-side with an auth
		// error, matching the provider contract.
		logrus.Warn("Birdeye API key is not configured; Birdeye requests will be rejected upstream")
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeoutSec == 0 {
		cfg.Server.ReadTimeoutSec = 15
	}
	if cfg.Server.WriteTimeoutSec == 0 {
		cfg.Server.WriteTimeoutSec = 30
	}
	if cfg.Server.IdleTimeoutSec == 0 {
		cfg.Server.IdleTimeoutSec = 60
	}

	if cfg.Birdeye.BaseURL == "" {
		cfg.Birdeye.BaseURL = "https://public-api.birdeye.so"
		logrus.Infof("Birdeye.BaseURL not set, defaulting to %s", cfg.Birdeye.BaseURL)
	}
	if cfg.Birdeye.RequestTimeoutMillis == 0 {
		cfg.Birdeye.RequestTimeoutMillis = 10000
	}
	if cfg.Birdeye.RateLimitPerSecond == 0 {
		cfg.Birdeye.RateLimitPerSecond = 10
	}
	if cfg.Birdeye.RateBurst == 0 {
		cfg.Birdeye.RateBurst = 5
	}

	if cfg.Helius.RPCURL == "" {
		cfg.Helius.RPCURL = "https://mainnet.helius-rpc.com"
	}
	if cfg.Helius.RequestTimeoutMillis == 0 {
		cfg.Helius.RequestTimeoutMillis = 15000
	}

	if cfg.RPC.Endpoint == "" {
		cfg.RPC.Endpoint = "https://api.mainnet-beta.solana.com"
		logrus.Infof("RPC.Endpoint not set, defaulting to %s", cfg.RPC.Endpoint)
	}
	if cfg.RPC.RequestTimeoutMillis == 0 {
		cfg.RPC.RequestTimeoutMillis = 15000
	}

	if cfg.Aggregator.DefaultProvider == "" {
		cfg.Aggregator.DefaultProvider = "birdeye"
	}
	if cfg.Aggregator.MaxConcurrentBalanceLookups <= 0 {
		cfg.Aggregator.MaxConcurrentBalanceLookups = 8
	}

	if cfg.PriceSvc.CacheTTLMinutes == 0 {
		cfg.PriceSvc.CacheTTLMinutes = 1
		logrus.Infof("CacheTTLMinutes for priceService not set, defaulting to %d", cfg.PriceSvc.CacheTTLMinutes)
	}
	if cfg.PriceSvc.CacheCleanupMinutes == 0 {
		cfg.PriceSvc.CacheCleanupMinutes = 10
	}
	if cfg.PriceSvc.MaxTokensPerBatchRequest == 0 {
		cfg.PriceSvc.MaxTokensPerBatchRequest = 100
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
