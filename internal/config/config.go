package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	UCloud   UCloudConfig
	Refresh  RefreshConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	Environment     string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// AuthConfig contains session configuration
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	BCryptCost int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// UCloudConfig contains the provider transport settings
type UCloudConfig struct {
	Endpoint string
	Timeout  time.Duration
	// ProxyURL routes every call through a relay as GET {proxy}?url={endpoint}&...
	ProxyURL string
}

// RefreshConfig controls scheduled refreshes and their side effects
type RefreshConfig struct {
	Schedule            string
	AlertCheckOnRefresh bool
	PartitionCacheSize  int
	NotificationLimit   int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "mxcloud"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./mxcloud.db"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "supersecretkey"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 12*time.Hour),
			BCryptCost: getEnvAsInt("BCRYPT_COST", 12),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		UCloud: UCloudConfig{
			Endpoint: getEnv("UCLOUD_ENDPOINT", "https://api.ucloud.cn/"),
			Timeout:  getEnvAsDuration("UCLOUD_TIMEOUT", 10*time.Second),
			ProxyURL: getEnv("UCLOUD_PROXY_URL", ""),
		},
		Refresh: RefreshConfig{
			Schedule:            getEnv("REFRESH_SCHEDULE", "@every 10m"),
			AlertCheckOnRefresh: getEnvAsBool("ALERT_CHECK_ON_REFRESH", true),
			PartitionCacheSize:  getEnvAsInt("PARTITION_CACHE_SIZE", 256),
			NotificationLimit:   getEnvAsInt("NOTIFICATION_LIMIT", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Environment == "production" && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "supersecretkey") {
		return fmt.Errorf("JWT_SECRET must be set and should not use default value in production")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if err := checkHTTPURL("UCLOUD_ENDPOINT", c.UCloud.Endpoint); err != nil {
		return err
	}
	if c.UCloud.ProxyURL != "" {
		if err := checkHTTPURL("UCLOUD_PROXY_URL", c.UCloud.ProxyURL); err != nil {
			return err
		}
	}

	if c.UCloud.Timeout <= 0 {
		return fmt.Errorf("UCLOUD_TIMEOUT must be positive")
	}

	if c.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
			return fmt.Errorf("invalid REFRESH_SCHEDULE %q: %w", c.Refresh.Schedule, err)
		}
	}

	if c.Refresh.PartitionCacheSize < 1 {
		return fmt.Errorf("PARTITION_CACHE_SIZE must be at least 1")
	}

	if c.Refresh.NotificationLimit < 1 {
		return fmt.Errorf("NOTIFICATION_LIMIT must be at least 1")
	}

	return nil
}

func checkHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
