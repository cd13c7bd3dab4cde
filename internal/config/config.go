package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/victorlin/metadata-explorer/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Chart shaping
	CategoryLimit int

	// Dataset cache
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Ingestion
	FetchTimeout   time.Duration
	LoadTimeout    time.Duration
	MaxUploadBytes int64

	// LoadRateLimit caps dataset loads per client IP per minute.
	LoadRateLimit int

	// Load history. An empty SQLiteDBPath disables it.
	SQLiteDBPath string
	HistoryLimit int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets source
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Preset refresh worker
	PrefetchInterval    time.Duration
	PrefetchConcurrency int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		CategoryLimit: getEnvInt("CATEGORY_LIMIT", 19),

		CacheTTL:        getEnvDuration("CACHE_TTL", 24*time.Hour),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 1024),

		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 60*time.Second),
		LoadTimeout:    getEnvDuration("LOAD_TIMEOUT", 5*time.Minute),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 256<<20),

		LoadRateLimit: getEnvInt("LOAD_RATE_LIMIT", 60),

		SQLiteDBPath: getEnvAllowEmpty("SQLITE_DB_PATH", "./data/explorer.db"),
		HistoryLimit: getEnvInt("HISTORY_LIMIT", 50),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "metadata"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "load_events"),

		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		PrefetchInterval:    getEnvDuration("PREFETCH_INTERVAL", 0),
		PrefetchConcurrency: getEnvInt("PREFETCH_CONCURRENCY", 4),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// The collapsed "other" bucket takes one extra palette slot.
	if c.CategoryLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid category limit %d: must be at least 1", c.CategoryLimit))
	} else if c.CategoryLimit+1 > core.MaxPaletteSize {
		errors = append(errors, fmt.Sprintf("invalid category limit %d: at most %d categories plus the overflow bucket can be colored", c.CategoryLimit, core.MaxPaletteSize-1))
	}

	if c.CacheTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 minute", c.CacheTTL))
	}
	if c.CacheMaxEntries < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheMaxEntries))
	}

	if c.FetchTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid fetch timeout %v: must be at least 1 second", c.FetchTimeout))
	}
	if c.LoadTimeout < c.FetchTimeout {
		errors = append(errors, fmt.Sprintf("invalid load timeout %v: must not be shorter than the fetch timeout %v", c.LoadTimeout, c.FetchTimeout))
	}
	if c.MaxUploadBytes < 1 {
		errors = append(errors, fmt.Sprintf("invalid upload limit %d: must be at least 1 byte", c.MaxUploadBytes))
	}

	if c.LoadRateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid load rate limit %d: must be at least 1", c.LoadRateLimit))
	}

	// An empty path means the load history is disabled.
	if c.SQLiteDBPath != "" {
		// Check if directory exists or can be created
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.HistoryLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid history limit %d: must be at least 1", c.HistoryLimit))
	} else if c.HistoryLimit > 1000 {
		errors = append(errors, fmt.Sprintf("invalid history limit %d: must be at most 1000", c.HistoryLimit))
	}

	// Validate AMQP URL if provided
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

	// Check if service account file exists (if specified)
	if c.GoogleServiceAccountFile != "" {
		if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
		}
	}

	// Validate prefetch worker configuration
	if c.PrefetchInterval != 0 {
		if c.PrefetchInterval < time.Minute {
			errors = append(errors, fmt.Sprintf("invalid prefetch interval %v: must be at least 1 minute", c.PrefetchInterval))
		} else if c.PrefetchInterval > 7*24*time.Hour {
			errors = append(errors, fmt.Sprintf("invalid prefetch interval %v: must be at most 7 days", c.PrefetchInterval))
		}
	}
	if c.PrefetchConcurrency < 1 {
		errors = append(errors, fmt.Sprintf("invalid prefetch concurrency %d: must be at least 1", c.PrefetchConcurrency))
	} else if c.PrefetchConcurrency > 32 {
		errors = append(errors, fmt.Sprintf("invalid prefetch concurrency %d: must be at most 32", c.PrefetchConcurrency))
	}

	// Return combined errors
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

// getEnvAllowEmpty treats an explicitly set empty value as meaningful,
// for knobs where empty means "off".
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
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

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
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
