package config

import (
	"errors"
	"fmt"
	"time"

	"akun/internal/database"
	"akun/internal/validation"

	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	JWTSecret      string
	TokenTTL       time.Duration
	RabbitMQURL    string // empty disables event publishing
	Rules          validation.Rules
}

// SetDefaults registers default values and binds environment variables.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", database.DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:akun.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("USERNAME_PATTERN", validation.DefaultUsernamePattern)
	v.SetDefault("PASSWORD_PATTERNS", validation.DefaultPasswordPatterns)
	v.AutomaticEnv()
}

// Load reads the configuration from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}

	ttl, err := time.ParseDuration(v.GetString("TOKEN_TTL"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl < 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %s is negative", ttl)
	}
	cfg.TokenTTL = ttl

	rules, err := validation.CompileRules(v.GetString("USERNAME_PATTERN"), v.GetStringSlice("PASSWORD_PATTERNS"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid validation pattern: %w", err)
	}
	cfg.Rules = rules

	return cfg, nil
}
