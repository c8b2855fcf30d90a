// Package config loads hexproof settings from a YAML file, HEXPROOF_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/hexproof-client/pkg/cache"
	"github.com/Sternrassler/hexproof-client/pkg/client"
	"github.com/Sternrassler/hexproof-client/pkg/logging"
	"github.com/Sternrassler/hexproof-client/pkg/mtgjson"
	"github.com/Sternrassler/hexproof-client/pkg/ratelimit"
	"github.com/Sternrassler/hexproof-client/pkg/scryfall"
	"github.com/Sternrassler/hexproof-client/pkg/vectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. HEXPROOF_REDIS_ADDR.
const EnvPrefix = "HEXPROOF"

// DefaultUserAgent identifies the client to upstreams.
const DefaultUserAgent = "hexproof-client/0.1.0"

// Config is the full application configuration.
type Config struct {
	Log        LogConfig                   `mapstructure:"log"`
	HTTP       HTTPConfig                  `mapstructure:"http"`
	Retry      RetryConfig                 `mapstructure:"retry"`
	RateLimits map[string]ratelimit.Window `mapstructure:"rate_limits"`
	Redis      RedisConfig                 `mapstructure:"redis"`
	Cache      CacheConfig                 `mapstructure:"cache"`
	URLs       URLsConfig                  `mapstructure:"urls"`
	Dirs       DirsConfig                  `mapstructure:"dirs"`
	Metrics    MetricsConfig               `mapstructure:"metrics"`
	Vectors    VectorsConfig               `mapstructure:"vectors"`
}

// LogConfig holds the log level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// HTTPConfig holds request headers and the per-request timeout.
type HTTPConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Accept    string        `mapstructure:"accept"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RetryConfig holds the retry policy for transient failures.
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	BaseDelay    time.Duration `mapstructure:"base_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	MaxTotalTime time.Duration `mapstructure:"max_total_time"`
	Jitter       float64       `mapstructure:"jitter"`

	// Statuses are retried in addition to 5xx and 429.
	Statuses []int `mapstructure:"statuses"`
}

// RedisConfig holds the optional Redis connection used by the cache.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds the default freshness window for cached responses.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// URLsConfig holds upstream base URLs.
type URLsConfig struct {
	MTGJSON  string `mapstructure:"mtgjson"`
	Scryfall string `mapstructure:"scryfall"`
	Vectors  string `mapstructure:"vectors"`
}

// DirsConfig holds the local directories resources are synced into.
type DirsConfig struct {
	MTGJSON  string `mapstructure:"mtgjson"`
	Scryfall string `mapstructure:"scryfall"`
	Vectors  string `mapstructure:"vectors"`
}

// MetricsConfig holds the listen address of the serve command.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// VectorsConfig holds mtg-vectors access settings.
type VectorsConfig struct {
	// AuthToken is a GitHub token sent as a bearer token.
	AuthToken string `mapstructure:"auth_token"`

	// Current is the locally installed manifest version.
	Current string `mapstructure:"current"`
}

func setDefaults(v *viper.Viper) {
	retry := client.DefaultRetryPolicy()

	v.SetDefault("log.level", string(logging.LevelInfo))
	v.SetDefault("log.pretty", false)

	v.SetDefault("http.user_agent", DefaultUserAgent)
	v.SetDefault("http.accept", "application/json")
	v.SetDefault("http.timeout", 30*time.Second)

	v.SetDefault("retry.max_attempts", retry.MaxAttempts)
	v.SetDefault("retry.base_delay", retry.BaseDelay)
	v.SetDefault("retry.max_delay", retry.MaxDelay)
	v.SetDefault("retry.max_total_time", retry.MaxTotalTime)
	v.SetDefault("retry.jitter", retry.Jitter)
	v.SetDefault("retry.statuses", []int{})

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl", cache.DefaultTTL)

	v.SetDefault("urls.mtgjson", mtgjson.DefaultBaseURL)
	v.SetDefault("urls.scryfall", scryfall.DefaultBaseURL)
	v.SetDefault("urls.vectors", vectors.DefaultBaseURL)

	v.SetDefault("dirs.mtgjson", "data/mtgjson")
	v.SetDefault("dirs.scryfall", "data/scryfall")
	v.SetDefault("dirs.vectors", "data/vectors")

	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("vectors.auth_token", "")
	v.SetDefault("vectors.current", "")
}

// Load reads configuration. An empty path searches ./hexproof.yaml and
// $HOME/.config/hexproof/hexproof.yaml and tolerates their absence; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("hexproof")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hexproof")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values Load cannot coerce.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return c.ClientConfig().Validate()
}

// LoggingConfig maps the log section onto logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.LogLevel(c.Log.Level)
	lc.Pretty = c.Log.Pretty
	return lc
}

// ClientConfig maps the configuration onto client.Config. Redis is left
// unset; attach the result of NewRedisClient.
func (c *Config) ClientConfig() client.Config {
	cc := client.DefaultConfig(c.HTTP.UserAgent)
	cc.Accept = c.HTTP.Accept
	cc.Timeout = c.HTTP.Timeout
	cc.Retry = client.RetryPolicy{
		MaxAttempts:  c.Retry.MaxAttempts,
		BaseDelay:    c.Retry.BaseDelay,
		MaxDelay:     c.Retry.MaxDelay,
		MaxTotalTime: c.Retry.MaxTotalTime,
		Jitter:       c.Retry.Jitter,
	}
	cc.RetryableStatuses = c.Retry.Statuses
	cc.Windows = c.RateLimits
	cc.CacheTTL = c.Cache.TTL
	return cc
}

// NewRedisClient returns a client for the redis section, or nil when
// Redis is disabled.
func (c *Config) NewRedisClient() *redis.Client {
	if !c.Redis.Enabled {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}
