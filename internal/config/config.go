package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/brandscout-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Resolve   ResolveConfig   `yaml:"resolve" mapstructure:"resolve"`
	Registry  RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	Path        string           `yaml:"path" mapstructure:"path"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// AnthropicConfig holds Anthropic API settings for the disambiguation fallback.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
}

// ResolveConfig tunes the resolution engine.
type ResolveConfig struct {
	MinLocations        int  `yaml:"min_locations" mapstructure:"min_locations"`
	MaxLocations        int  `yaml:"max_locations" mapstructure:"max_locations"`
	MinPrefix           int  `yaml:"min_prefix" mapstructure:"min_prefix"`
	NearMissLow         int  `yaml:"near_miss_low" mapstructure:"near_miss_low"`
	NearMissHigh        int  `yaml:"near_miss_high" mapstructure:"near_miss_high"`
	ResolveRedirects    bool `yaml:"resolve_redirects" mapstructure:"resolve_redirects"`
	RedirectTimeoutSecs int  `yaml:"redirect_timeout_secs" mapstructure:"redirect_timeout_secs"`
	RedirectRPS         int  `yaml:"redirect_rps" mapstructure:"redirect_rps"`
	RedirectWorkers     int  `yaml:"redirect_workers" mapstructure:"redirect_workers"`
}

// RegistryConfig points at the chain/city registry file.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the resolve server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BRANDSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "brandscout.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.timeout_secs", 30)
	v.SetDefault("anthropic.enabled", true)
	v.SetDefault("resolve.min_locations", 3)
	v.SetDefault("resolve.max_locations", 10)
	v.SetDefault("resolve.min_prefix", 3)
	v.SetDefault("resolve.near_miss_low", 8)
	v.SetDefault("resolve.near_miss_high", 12)
	v.SetDefault("resolve.redirect_timeout_secs", 5)
	v.SetDefault("resolve.redirect_rps", 5)
	v.SetDefault("resolve.redirect_workers", 8)

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
