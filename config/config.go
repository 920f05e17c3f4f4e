package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	BotToken string

	// Database configuration
	DatabaseURL string

	// Administrator Telegram IDs allowed to run management commands
	AdminUserIDs []int64

	// Cooldown applied to rate-limited commands
	CommandCooldown time.Duration

	// Environment: "development" or "production"
	Environment string
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	config := &Config{
		BotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CommandCooldown: 2 * time.Second,
		Environment:     os.Getenv("ENVIRONMENT"),
	}

	if cooldown := os.Getenv("COMMAND_COOLDOWN_SECONDS"); cooldown != "" {
		if parsed, err := strconv.Atoi(cooldown); err == nil {
			config.CommandCooldown = time.Duration(parsed) * time.Second
		}
	}

	for _, idStr := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			continue
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin ID %q: %w", idStr, err)
		}
		config.AdminUserIDs = append(config.AdminUserIDs, id)
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.BotToken == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if len(config.AdminUserIDs) == 0 {
			return nil, fmt.Errorf("ADMIN_IDS is required (comma-separated list of Telegram user IDs)")
		}
	}

	return config, nil
}

// IsAdmin reports whether the given Telegram ID belongs to an administrator
func (c *Config) IsAdmin(userID int64) bool {
	for _, adminID := range c.AdminUserIDs {
		if adminID == userID {
			return true
		}
	}
	return false
}
