// Package config reads the bell board's process configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // containers often ship without zoneinfo
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment   string
	HTTPAddr      string
	DataDir       string
	StaticDir     string
	Timezone      string
	Location      *time.Location
	TimetableFile string // optional YAML override of the embedded timetable
	OverlaySource string

	IdleTimeout  time.Duration
	FadeDuration time.Duration
}

// Load reads environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:   getEnv("BELLBOARD_ENV", "production"),
		HTTPAddr:      getEnv("BELLBOARD_HTTP_ADDR", ":8099"),
		DataDir:       getEnv("BELLBOARD_DATA_DIR", "/data"),
		StaticDir:     getEnv("BELLBOARD_STATIC_DIR", "./static"),
		Timezone:      getEnv("BELLBOARD_TIMEZONE", "Europe/Istanbul"),
		TimetableFile: getEnv("BELLBOARD_TIMETABLE", ""),
		OverlaySource: getEnv("BELLBOARD_OVERLAY_SOURCE", "/space.mp4"),
		IdleTimeout:   time.Duration(getEnvInt("BELLBOARD_IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
		FadeDuration:  time.Duration(getEnvInt("BELLBOARD_FADE_MS", 500)) * time.Millisecond,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and resolves the timezone.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("BELLBOARD_HTTP_ADDR must not be empty")
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("BELLBOARD_IDLE_TIMEOUT_SECONDS must be positive")
	}
	if c.FadeDuration < 0 {
		return fmt.Errorf("BELLBOARD_FADE_MS must not be negative")
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid BELLBOARD_TIMEZONE %q: %w", c.Timezone, err)
	}
	c.Location = loc
	return nil
}

// IsDevelopment reports whether debug logging should be on.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}
