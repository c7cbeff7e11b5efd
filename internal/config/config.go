package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Exchange-rate provider
	RateAPIBaseURL string
	RateAPIKey     string

	// History archive
	SQLiteDBPath string

	// AMQP reminder delivery
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// History archive batching
	HistoryBatchSize int

	// Scheduler intervals
	RateRefreshInterval    time.Duration
	ReminderCheckInterval  time.Duration
	RecurringInterval      time.Duration
	InsightInterval        time.Duration
	HistoryArchiveInterval time.Duration
}

func Load() *Config {
	return &Config{
		RateAPIBaseURL: getEnv("RATE_API_BASE_URL", "https://v6.exchangerate-api.com/v6"),
		RateAPIKey:     getEnv("RATE_API_KEY", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budget.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "bill_reminders"),

		HistoryBatchSize: getEnvInt("HISTORY_BATCH_SIZE", 50),

		RateRefreshInterval:    getEnvDuration("RATE_REFRESH_INTERVAL", time.Hour),
		ReminderCheckInterval:  getEnvDuration("REMINDER_CHECK_INTERVAL", time.Minute),
		RecurringInterval:      getEnvDuration("RECURRING_INTERVAL", 24*time.Hour),
		InsightInterval:        getEnvDuration("INSIGHT_INTERVAL", 24*time.Hour),
		HistoryArchiveInterval: getEnvDuration("HISTORY_ARCHIVE_INTERVAL", 5*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.RateAPIBaseURL != "" {
		if parsedURL, err := url.Parse(c.RateAPIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid rate API base URL '%s': %v", c.RateAPIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid rate API URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.HistoryBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid history batch size %d: must be at least 1", c.HistoryBatchSize))
	} else if c.HistoryBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid history batch size %d: must be at most 1000", c.HistoryBatchSize))
	}

	intervals := []struct {
		name  string
		value time.Duration
		min   time.Duration
	}{
		{"rate refresh interval", c.RateRefreshInterval, time.Minute},
		{"reminder check interval", c.ReminderCheckInterval, time.Second},
		{"recurring processing interval", c.RecurringInterval, time.Minute},
		{"insight interval", c.InsightInterval, time.Minute},
		{"history archive interval", c.HistoryArchiveInterval, time.Second},
	}
	for _, iv := range intervals {
		if iv.value < iv.min {
			errors = append(errors, fmt.Sprintf("invalid %s %v: must be at least %v", iv.name, iv.value, iv.min))
		} else if iv.value > 7*24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid %s %v: must be at most 168 hours", iv.name, iv.value))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
