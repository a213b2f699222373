package conf

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Version is reported in every log line.
const Version = "1.0.0"

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// LPTracker configuration (optional)
	LPTracker LPTrackerConfig

	// Correlation store path
	DBPath string

	// Log level
	LogLevel string
}

// TelegramConfig contains the transport credentials and the operator group.
type TelegramConfig struct {
	BotToken string
	GroupID  int64
}

// LPTrackerConfig contains CRM configuration. The integration is optional:
// any missing credential disables it entirely.
type LPTrackerConfig struct {
	Login     string
	Password  string
	ProjectID int64
	Service   string
	BaseURL   string
}

// Enabled reports whether all CRM credentials are present.
func (c *LPTrackerConfig) Enabled() bool {
	return c.Login != "" && c.Password != "" && c.ProjectID != 0
}

// MissingVars names the unset CRM variables, for the startup warning.
func (c *LPTrackerConfig) MissingVars() []string {
	var missing []string
	if c.Login == "" {
		missing = append(missing, "LP_LOGIN")
	}
	if c.Password == "" {
		missing = append(missing, "LP_PASSWORD")
	}
	if c.ProjectID == 0 {
		missing = append(missing, "LP_PROJECT_ID")
	}
	return missing
}

// LoadFromEnv loads configuration from a .env file and the environment.
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Telegram: TelegramConfig{
			BotToken: strings.TrimSpace(os.Getenv("BOT_TOKEN")),
			GroupID:  getEnvInt64("GROUP_ID", 0),
		},
		LPTracker: LPTrackerConfig{
			Login:     strings.TrimSpace(os.Getenv("LP_LOGIN")),
			Password:  strings.TrimSpace(os.Getenv("LP_PASSWORD")),
			ProjectID: getEnvInt64("LP_PROJECT_ID", 0),
			Service:   getEnv("LP_SERVICE", "TelegramSupportBot"),
			BaseURL:   os.Getenv("LP_BASE_URL"),
		},
		DBPath:   getEnv("DB_PATH", "links.sqlite"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the fatal startup conditions: the transport credential and
// the operator group are required, everything else is optional.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Telegram.GroupID == 0 {
		return fmt.Errorf("GROUP_ID is required and must be a chat id")
	}
	return nil
}

// SetupLogger configures zerolog with JSON output to stdout.
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "leadrelay").
		Str("version", Version).
		Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt64 gets an environment variable as int64 with a default fallback
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
