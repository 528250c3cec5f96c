package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/petit-bac/internal/common"
)

// Cache backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the typed view of every setting the application reads.
type Config struct {
	DatabasePath        string
	CacheBackend        string
	RedisURL            string
	RedisPrefix         string
	WebBaseURL          string
	WordListsPath       string
	ServerAddr          string
	LogLevel            string
	LogFormat           string
	WebTimeout          time.Duration
	LiveDebounce        time.Duration
	ConfidenceThreshold float64
	WebRateLimit        int
	WebEnabled          bool
	SemanticEnabled     bool
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("cache.backend", BackendSQLite)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.prefix", "bac:validated:")
	v.SetDefault("web.enabled", true)
	v.SetDefault("web.base_url", "https://api.dictionaryapi.dev/api/v2/entries/en")
	v.SetDefault("web.timeout", 8*time.Second)
	v.SetDefault("web.rate_limit", 0)
	v.SetDefault("semantic.enabled", false)
	v.SetDefault("wordlists.path", "")
	v.SetDefault("engine.confidence_threshold", 0.70)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("live.debounce", 300*time.Millisecond)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads settings from v, which should already hold defaults, the
// config file, environment and flags.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DatabasePath:        ExpandPath(v.GetString("database.path")),
		CacheBackend:        strings.ToLower(strings.TrimSpace(v.GetString("cache.backend"))),
		RedisURL:            v.GetString("redis.url"),
		RedisPrefix:         v.GetString("redis.prefix"),
		WebEnabled:          v.GetBool("web.enabled"),
		WebBaseURL:          v.GetString("web.base_url"),
		WebTimeout:          v.GetDuration("web.timeout"),
		WebRateLimit:        v.GetInt("web.rate_limit"),
		SemanticEnabled:     v.GetBool("semantic.enabled"),
		WordListsPath:       ExpandPath(v.GetString("wordlists.path")),
		ConfidenceThreshold: v.GetFloat64("engine.confidence_threshold"),
		ServerAddr:          v.GetString("server.addr"),
		LiveDebounce:        v.GetDuration("live.debounce"),
		LogLevel:            v.GetString("logging.level"),
		LogFormat:           v.GetString("logging.format"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that settings are usable.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis.url", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: cache.backend %q", common.ErrUnsupportedStore, c.CacheBackend)
	}

	if c.WebTimeout <= 0 {
		return fmt.Errorf("%w: web.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.WebRateLimit < 0 {
		return fmt.Errorf("%w: web.rate_limit must not be negative", common.ErrInvalidConfig)
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: engine.confidence_threshold must be in (0, 1]", common.ErrInvalidConfig)
	}
	if c.LiveDebounce < 0 {
		return fmt.Errorf("%w: live.debounce must not be negative", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
