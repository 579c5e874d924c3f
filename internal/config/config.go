// Package config loads process configuration from the environment and an
// optional config.yml.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultSessionSecret is only acceptable outside production.
const DefaultSessionSecret = "change-me-in-production"

// minProductionSecretLen is the shortest session secret accepted in
// production.
const minProductionSecretLen = 32

// Config holds every setting the server needs.
type Config struct {
	AppPort            string
	AppEnv             string
	DatabaseDriver     string
	DatabaseDSN        string
	SessionSecret      string
	SessionTTL         time.Duration
	SessionCookie      string
	RabbitMQURL        string
	PasswordIterations int
	RecentPostsLimit   int
}

// Production reports whether strict settings apply.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// Load reads configuration from v. Environment variables override config.yml
// which overrides the defaults. A nil v uses a fresh viper instance.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "blog.db")
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("SESSION_COOKIE", "user")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("PASSWORD_ITERATIONS", 10000)
	v.SetDefault("RECENT_POSTS_LIMIT", 9)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		AppPort:            v.GetString("APP_PORT"),
		AppEnv:             v.GetString("APP_ENV"),
		DatabaseDriver:     v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		SessionTTL:         v.GetDuration("SESSION_TTL"),
		SessionCookie:      v.GetString("SESSION_COOKIE"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		PasswordIterations: v.GetInt("PASSWORD_ITERATIONS"),
		RecentPostsLimit:   v.GetInt("RECENT_POSTS_LIMIT"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for values the server cannot run with.
func (c Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.SessionCookie == "" {
		return fmt.Errorf("SESSION_COOKIE is required")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	if c.Production() {
		if c.SessionSecret == DefaultSessionSecret {
			return fmt.Errorf("SESSION_SECRET must be changed in production")
		}
		if len(c.SessionSecret) < minProductionSecretLen {
			return fmt.Errorf("SESSION_SECRET must be at least %d bytes in production", minProductionSecretLen)
		}
	}
	return nil
}
