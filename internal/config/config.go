package config

import (
	"fmt"
	"regexp"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Events    EventsConfig    `mapstructure:"events"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`            // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort       int           `mapstructure:"http_port"`       // HTTP server port
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // Upper bound for a single analytics request
}

// Store backends
const (
	StoreBackendSQLite     = "sqlite"
	StoreBackendMySQL      = "mysql"
	StoreBackendPostgreSQL = "postgresql"
	StoreBackendMemory     = "memory"
)

// DefaultStoreTable is the only table the embedded migrations create
const DefaultStoreTable = "journal_entries"

// StoreConfig represents the journal entry store configuration
type StoreConfig struct {
	Backend      string        `mapstructure:"backend"`        // sqlite (default), mysql, postgresql, memory
	DSN          string        `mapstructure:"dsn"`            // File path for sqlite, connection string otherwise
	Migrate      bool          `mapstructure:"migrate"`        // Apply embedded schema migrations on startup
	MaxOpenConns int           `mapstructure:"max_open_conns"` // Ignored for sqlite (always 1)
	QueryTimeout time.Duration `mapstructure:"query_timeout"`  // Per-query deadline
	Table        string        `mapstructure:"table"`          // Table holding journal entries
}

// AnalyticsConfig represents analytics engine configuration
type AnalyticsConfig struct {
	DefaultDays   int    `mapstructure:"default_days"`    // Lookback when ?days is absent
	MaxDays       int    `mapstructure:"max_days"`        // Upper bound for ?days
	WindowSize    int    `mapstructure:"window_size"`     // Rolling window when ?window is absent
	MaxWindowSize int    `mapstructure:"max_window_size"` // Upper bound for ?window
	PatternDays   int    `mapstructure:"pattern_days"`    // Fixed lookback for the pattern view
	Timezone      string `mapstructure:"timezone"`        // Weekday/hour bucketing zone (e.g., "Asia/Tokyo", "+09:00", "UTC")
}

// EventsConfig represents analysis-completed event publishing configuration
type EventsConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Type           string        `mapstructure:"type"`            // memory, nats, redis, kafka
	URL            string        `mapstructure:"url"`             // Broker URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username       string        `mapstructure:"username"`        // Optional authentication
	Password       string        `mapstructure:"password"`        // Optional authentication
	SubjectPrefix  string        `mapstructure:"subject_prefix"`  // Subjects are <prefix>.trend, <prefix>.outliers, <prefix>.patterns
	Compress       bool          `mapstructure:"compress"`        // Snappy-compress payloads
	PublishTimeout time.Duration `mapstructure:"publish_timeout"` // Per-publish deadline

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`     // Redis database number (default: 0)
	RedisStream string `mapstructure:"redis_stream"` // Redis stream prefix (default: "luma")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"` // Kafka broker addresses
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled    bool     `mapstructure:"enabled"`     // Enable/disable API key authentication
	APIKeys    []string `mapstructure:"api_keys"`    // List of valid API keys
	UserHeader string   `mapstructure:"user_header"` // Header carrying the authenticated user id
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// MinAPIKeyLength is the shortest API key accepted when auth is enabled
const MinAPIKeyLength = 32

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store config: %w", err)
	}

	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	return nil
}

// Validate validates store configuration
func (c *StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendSQLite, StoreBackendMySQL, StoreBackendPostgreSQL:
		if c.DSN == "" {
			return fmt.Errorf("store.dsn is required for backend %s", c.Backend)
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("store.backend must be one of: sqlite, mysql, postgresql, memory")
	}

	if c.QueryTimeout <= 0 {
		return fmt.Errorf("store.query_timeout must be positive")
	}

	if c.MaxOpenConns < 0 {
		return fmt.Errorf("store.max_open_conns cannot be negative")
	}

	if !tableNamePattern.MatchString(c.Table) {
		return fmt.Errorf("store.table %q is not a valid identifier", c.Table)
	}

	if c.Migrate && c.Backend != StoreBackendMemory && c.Table != DefaultStoreTable {
		return fmt.Errorf("store.migrate only creates %s; disable it to use table %q", DefaultStoreTable, c.Table)
	}

	return nil
}

// Validate validates analytics configuration
func (c *AnalyticsConfig) Validate() error {
	if c.MaxDays < 1 {
		return fmt.Errorf("analytics.max_days must be at least 1")
	}

	if c.DefaultDays < 1 || c.DefaultDays > c.MaxDays {
		return fmt.Errorf("analytics.default_days must be between 1 and max_days")
	}

	if c.MaxWindowSize < 1 {
		return fmt.Errorf("analytics.max_window_size must be at least 1")
	}

	if c.WindowSize < 1 || c.WindowSize > c.MaxWindowSize {
		return fmt.Errorf("analytics.window_size must be between 1 and max_window_size")
	}

	if c.PatternDays < 1 {
		return fmt.Errorf("analytics.pattern_days must be at least 1")
	}

	if c.Timezone != "" {
		if _, err := ParseTimezone(c.Timezone); err != nil {
			return fmt.Errorf("analytics.timezone: %w", err)
		}
	}

	return nil
}

// Validate validates events configuration
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	switch c.Type {
	case "memory":
	case "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("events.url is required for type %s", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 && c.URL == "" {
			return fmt.Errorf("events.kafka_brokers or events.url is required for kafka")
		}
	default:
		return fmt.Errorf("events.type must be one of: memory, nats, redis, kafka")
	}

	if c.SubjectPrefix == "" {
		return fmt.Errorf("events.subject_prefix is required")
	}

	if c.PublishTimeout <= 0 {
		return fmt.Errorf("events.publish_timeout must be positive")
	}

	return nil
}

// Validate validates auth configuration
func (c *AuthConfig) Validate() error {
	if c.UserHeader == "" {
		return fmt.Errorf("auth.user_header is required")
	}

	if !c.Enabled {
		return nil
	}

	if len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}

	for i, key := range c.APIKeys {
		if len(key) < MinAPIKeyLength {
			return fmt.Errorf("auth.api_keys[%d] must be at least %d characters", i, MinAPIKeyLength)
		}
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
