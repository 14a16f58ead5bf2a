package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Feed    FeedConfig
	Geocode GeocodeConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type FeedConfig struct {
	URL          string
	Timeout      time.Duration
	PollInterval time.Duration
}

type GeocodeConfig struct {
	FlagCDNURL   string
	NominatimURL string
	Timeout      time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Feed: FeedConfig{
			URL:          getEnv("GDACS_URL", "https://www.gdacs.org/xml/rss_7d.xml"),
			Timeout:      getEnvDuration("GDACS_TIMEOUT", 30*time.Second),
			PollInterval: getEnvDuration("GDACS_POLL_INTERVAL", 10*time.Minute),
		},
		Geocode: GeocodeConfig{
			FlagCDNURL:   getEnv("FLAGCDN_URL", "https://flagcdn.com/w2560"),
			NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			Timeout:      getEnvDuration("GEOCODE_TIMEOUT", 10*time.Second),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/gdacs-events.db"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Feed.URL == "" {
		return fmt.Errorf("feed URL must not be empty")
	}
	if c.Feed.PollInterval < time.Minute {
		return fmt.Errorf("feed poll interval must be at least 1 minute")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
