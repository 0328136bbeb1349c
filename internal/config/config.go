package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is assembled from the environment, with a .env file honored in
// development. POSTGRES_DSN is the only required setting.
type Config struct {
	Env             string
	HTTPPort        string
	PostgresDSN     string
	RedisAddr       string
	RedisUsername   string
	RedisPassword   string
	LockTTL         time.Duration // lifetime of a booking day lock
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             envOr("APP_ENV", "dev"),
		HTTPPort:        envOr("HTTP_PORT", "8080"),
		PostgresDSN:     os.Getenv("POSTGRES_DSN"),
		LockTTL:         envDuration("LOCK_TTL", 5*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MetricsEnabled:  envBool("METRICS_ENABLED", true),
	}
	if cfg.PostgresDSN == "" {
		return Config{}, errors.New("POSTGRES_DSN is required")
	}

	if err := cfg.loadRedis(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadRedis accepts either a single REDIS_URL or the individual
// REDIS_ADDR / REDIS_USERNAME / REDIS_PASSWORD settings.
func (c *Config) loadRedis() error {
	raw := os.Getenv("REDIS_URL")
	if raw == "" {
		c.RedisAddr = envOr("REDIS_ADDR", "127.0.0.1:6379")
		c.RedisUsername = os.Getenv("REDIS_USERNAME")
		c.RedisPassword = os.Getenv("REDIS_PASSWORD")
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	c.RedisAddr = u.Host
	if u.User != nil {
		c.RedisUsername = u.User.Username()
		c.RedisPassword, _ = u.User.Password()
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// envDuration accepts either a bare number of seconds or a Go duration
// string like "1m30s".
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, fallback)
	return fallback
}
