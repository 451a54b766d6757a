package config

import (
	"errors"
	"os"
	"strings"
)

// Development fallbacks. Production refuses to start on these; see FromEnv.
const (
	devSessionSecret = "dev-session-secret"
	devTokenSecret   = "dev-access-token-secret"
)

type Config struct {
	HTTPAddr string

	Env string // "dev" | "prod"

	// SessionSecret signs session credentials (JWT); TokenSecret signs
	// the short-lived access tokens. They are independent so rotating one
	// does not invalidate the other.
	SessionSecret string
	TokenSecret   string

	// RedisAddr enables the Redis-backed replay guard when non-empty.
	RedisAddr     string
	RedisPassword string
}

var ErrMissingSecrets = errors.New("ROOMGATE_SESSION_SECRET and ROOMGATE_TOKEN_SECRET are required in prod")

// FromEnv reads configuration from environment variables. In prod the
// signing secrets must be supplied explicitly; dev falls back to fixed
// defaults so a fresh checkout runs without setup.
func FromEnv() (Config, error) {
	env := strings.ToLower(getenvDefault("ROOMGATE_ENV", "dev"))
	if env != "dev" && env != "prod" {
		env = "dev"
	}

	cfg := Config{
		HTTPAddr:      getenvDefault("ROOMGATE_HTTP_ADDR", ":8431"),
		Env:           env,
		SessionSecret: os.Getenv("ROOMGATE_SESSION_SECRET"),
		TokenSecret:   os.Getenv("ROOMGATE_TOKEN_SECRET"),
		RedisAddr:     strings.TrimSpace(os.Getenv("ROOMGATE_REDIS_ADDR")),
		RedisPassword: os.Getenv("ROOMGATE_REDIS_PASSWORD"),
	}

	if cfg.SessionSecret == "" || cfg.TokenSecret == "" {
		if env == "prod" {
			return Config{}, ErrMissingSecrets
		}
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = devSessionSecret
		}
		if cfg.TokenSecret == "" {
			cfg.TokenSecret = devTokenSecret
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
