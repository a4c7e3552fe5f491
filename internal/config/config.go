package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	applog "shopapi/internal/log"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	DBDriver string `mapstructure:"DB_DRIVER"`
	DBDSN    string `mapstructure:"DB_DSN"`
	Seed     bool   `mapstructure:"SEED"`

	JWTSecret        string        `mapstructure:"JWT_SECRET_KEY"`
	JWTExpiresIn     time.Duration `mapstructure:"JWT_EXPIRES_IN"`
	JWTCookieExpDays int           `mapstructure:"JWT_COOKIE_EXPIRES_IN"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	RateLimitMax    int           `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	BodyLimit       int           `mapstructure:"BODY_LIMIT"`
}

var defaults = map[string]any{
	"PORT":                  "8080",
	"DB_DRIVER":             "sqlite",
	"DB_DSN":                "shop.db",
	"SEED":                  true,
	"JWT_SECRET_KEY":        "dev-secret-change-me",
	"JWT_EXPIRES_IN":        "24h",
	"JWT_COOKIE_EXPIRES_IN": 1,
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"CACHE_TTL":             "5m",
	"LOG_LEVEL":             "info",
	"LOG_FILE":              "",
	"RATE_LIMIT_MAX":        100,
	"RATE_LIMIT_WINDOW":     "1m",
	"BODY_LIMIT":            50 * 1024,
}

// Load reads the environment (and an optional config.yaml in the working
// directory) on top of the defaults above.
func Load() (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, nil
}

// Log writes the effective configuration with secrets masked.
func (c Config) Log() {
	applog.L().Info("config",
		zap.String("port", c.Port),
		zap.String("db_driver", c.DBDriver),
		zap.String("db_dsn", mask(c.DBDSN, c.DBDriver != "sqlite")),
		zap.Bool("seed", c.Seed),
		zap.String("jwt_secret", mask(c.JWTSecret, true)),
		zap.Duration("jwt_expires_in", c.JWTExpiresIn),
		zap.String("redis_addr", c.RedisAddr),
		zap.Duration("cache_ttl", c.CacheTTL),
		zap.String("log_level", c.LogLevel),
		zap.Int("rate_limit_max", c.RateLimitMax),
		zap.Duration("rate_limit_window", c.RateLimitWindow),
		zap.Int("body_limit", c.BodyLimit),
	)
}

func mask(s string, secret bool) string {
	if !secret || s == "" {
		return s
	}
	return "****"
}
