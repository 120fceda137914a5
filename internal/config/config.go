package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Chat platforms (at least one token required)
	TelegramToken string
	DiscordToken  string

	// Database
	DatabaseURL string

	// Web Server
	WebBind string

	// Commands
	CommandPrefix string
	TimezoneName  string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		WebBind:       getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		CommandPrefix: getEnvDefault("COMMAND_PREFIX", "cl"),
		TimezoneName:  getEnvDefault("TZ_NAME", "Asia/Ho_Chi_Minh"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TelegramToken == "" && cfg.DiscordToken == "" {
		return nil, fmt.Errorf("at least one of TELEGRAM_TOKEN or DISCORD_TOKEN is required")
	}

	return cfg, nil
}

// Location resolves the configured timezone used for event dates.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME %q: %w", c.TimezoneName, err)
	}
	return loc, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
