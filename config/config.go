// Package config loads cmd/server's configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/exp/slog"
)

// Config holds every knob cmd/server needs to construct an engine, an
// optional Redis-backed coordinator, and an HTTP listener.
type Config struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`

	BucketCount      int           `envconfig:"BUCKET_COUNT" default:"16384"`
	DefaultMaxTokens int64         `envconfig:"DEFAULT_MAX_TOKENS" default:"100"`
	DefaultWindow    time.Duration `envconfig:"DEFAULT_WINDOW" default:"60s"`

	RedisURL       string `envconfig:"REDIS_URL" default:"localhost:6379"`
	RedisKeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"rlengine:"`
	EventStream    string `envconfig:"EVENT_STREAM" default:"rlengine-events"`

	NTPServer       string `envconfig:"NTP_SERVER" default:"pool.ntp.org"`
	CheckClockDrift bool   `envconfig:"CHECK_CLOCK_DRIFT" default:"true"`
}

// Load reads environment variables into a Config, first loading a .env
// file from the working directory if one is present.
func Load() (Config, error) {
	loadEnvFile()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			slog.Warn("config: found .env but failed to load it", slog.Any("error", err))
		}
	} else if !os.IsNotExist(err) {
		slog.Warn("config: unexpected error checking for .env", slog.Any("error", err))
	}
}
