package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the jobwatch server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Scheduler SchedulerConfig
	Search    SearchConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// SMTPConfig configures the email transport. An empty Password is valid:
// the server then runs with a dry-run mailer that logs delivery intent
// instead of sending.
type SMTPConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

// Configured reports whether real SMTP delivery is possible.
func (c SMTPConfig) Configured() bool {
	return c.Password != ""
}

type SchedulerConfig struct {
	CheckInterval time.Duration
}

// SearchConfig configures on-demand board searches. An empty ScraperURL
// disables the board sources; the search endpoint then only serves what is
// already in the corpus cache.
type SearchConfig struct {
	ResultCacheTTL time.Duration
	ScraperURL     string
	ScrapeTimeout  time.Duration
	ResultLimit    int
}

// Load reads configuration from environment variables and returns a validated Config.
// Returns an error with a descriptive message if any required value is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("JOBWATCH_PORT", 8080),
			Env:  envString("JOBWATCH_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		SMTP: SMTPConfig{
			Host:     envString("SMTP_SERVER", "smtp.gmail.com"),
			Port:     envInt("SMTP_PORT", 587),
			Sender:   envString("EMAIL_SENDER", "jobwatch@example.com"),
			Password: os.Getenv("EMAIL_PASSWORD"),
		},
		Scheduler: SchedulerConfig{
			CheckInterval: envDuration("ALERT_CHECK_INTERVAL", time.Hour),
		},
		Search: SearchConfig{
			ResultCacheTTL: envDuration("SEARCH_RESULT_CACHE_TTL", 15*time.Minute),
			ScraperURL:     os.Getenv("SCRAPER_URL"),
			ScrapeTimeout:  envDuration("SCRAPER_TIMEOUT", 30*time.Second),
			ResultLimit:    envInt("SEARCH_RESULT_LIMIT", 25),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("SMTP_PORT must be a valid port number, got %d", c.SMTP.Port)
	}
	if c.SMTP.Sender == "" {
		return fmt.Errorf("EMAIL_SENDER must not be empty")
	}

	if c.Scheduler.CheckInterval < time.Minute {
		return fmt.Errorf("ALERT_CHECK_INTERVAL must be at least 1m, got %s", c.Scheduler.CheckInterval)
	}

	if c.Search.ResultLimit <= 0 {
		return fmt.Errorf("SEARCH_RESULT_LIMIT must be positive, got %d", c.Search.ResultLimit)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
