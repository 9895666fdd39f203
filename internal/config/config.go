package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Save backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    slog.Level `env:"-"`
	LogLevelRaw string     `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string     `env:"LOG_FILE"`

	DataDir       string `env:"DATA_DIR" envDefault:"./data"`
	CharacterData string `env:"CHARACTER_DATA" envDefault:"character_creation.json"`
	AdventureData string `env:"ADVENTURE_DATA" envDefault:"adventure.json"`
	DataBaseURL   string `env:"DATA_BASE_URL"`
	Soundtrack    string `env:"SOUNDTRACK" envDefault:"data/soundtrack.yaml"`

	SaveBackend     string        `env:"SAVE_BACKEND" envDefault:"file"`
	SaveDir         string        `env:"SAVE_DIR" envDefault:"./saves"`
	RedisURL        string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SaveTTL         time.Duration `env:"SAVE_TTL" envDefault:"0s"`
	BroadcastEvents bool          `env:"BROADCAST_EVENTS" envDefault:"false"`
	EventsPort      string        `env:"EVENTS_PORT" envDefault:"8080"`

	NavigationDelay  time.Duration `env:"NAVIGATION_DELAY" envDefault:"500ms"`
	CharacterBuilder bool          `env:"CHARACTER_BUILDER" envDefault:"true"`
	MusicEnabled     bool          `env:"MUSIC_ENABLED" envDefault:"false"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.LogLevel, _ = parseLogLevel(cfg.LogLevelRaw)
	return &cfg, nil
}

// Validate rejects settings the program cannot start with.
func (c *Config) Validate() error {
	if _, err := parseLogLevel(c.LogLevelRaw); err != nil {
		return err
	}
	switch c.SaveBackend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("SAVE_BACKEND must be %q or %q, got %q", BackendFile, BackendRedis, c.SaveBackend)
	}
	if c.NavigationDelay < 0 {
		return fmt.Errorf("NAVIGATION_DELAY cannot be negative")
	}
	if c.SaveTTL < 0 {
		return fmt.Errorf("SAVE_TTL cannot be negative")
	}
	if c.BroadcastEvents && c.RedisURL == "" {
		return fmt.Errorf("BROADCAST_EVENTS requires REDIS_URL")
	}
	return nil
}

// CharacterSource is the path or URL of the character-creation entries.
func (c *Config) CharacterSource() string {
	return c.dataLocation(c.CharacterData)
}

// AdventureSource is the path or URL of the adventure entries.
func (c *Config) AdventureSource() string {
	return c.dataLocation(c.AdventureData)
}

// Remote reports whether entries are fetched over HTTP.
func (c *Config) Remote() bool {
	return c.DataBaseURL != ""
}

func (c *Config) dataLocation(name string) string {
	if strings.Contains(name, "://") || filepath.IsAbs(name) {
		return name
	}
	if c.Remote() {
		return strings.TrimRight(c.DataBaseURL, "/") + "/" + name
	}
	return filepath.Join(c.DataDir, name)
}

// parseLogLevel accepts the slog level names. Empty means info.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", level)
}
