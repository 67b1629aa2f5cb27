package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"autocare/internal/telemetry"
	libconfig "autocare/libs/config"
)

// Config defines the service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"AUTOCARE_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"AUTOCARE_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr         string        `yaml:"addr" env:"AUTOCARE_REDIS_ADDR"`
		Password     string        `yaml:"password" env:"AUTOCARE_REDIS_PASSWORD"`
		DB           int           `yaml:"db" env:"AUTOCARE_REDIS_DB"`
		EventChannel string        `yaml:"event_channel" env:"AUTOCARE_EVENT_CHANNEL"`
		LatestTTL    time.Duration `yaml:"latest_ttl" env:"AUTOCARE_LATEST_TTL"`
	} `yaml:"redis"`
	Alerts telemetry.Thresholds `yaml:"alerts"`
}

// Load configuration using the shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.EventChannel = "autocare:events"
	cfg.Redis.LatestTTL = 15 * time.Minute

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
