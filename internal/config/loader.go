package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LUMA_STORE_DSN
const EnvPrefix = "LUMA"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")         // Current directory
		v.AddConfigPath("./configs") // Project configs directory
		v.AddConfigPath("/etc/luma") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server defaults
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.request_timeout", d.Server.RequestTimeout)

	// Store defaults
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("store.migrate", d.Store.Migrate)
	v.SetDefault("store.max_open_conns", d.Store.MaxOpenConns)
	v.SetDefault("store.query_timeout", d.Store.QueryTimeout)
	v.SetDefault("store.table", d.Store.Table)

	// Analytics defaults
	v.SetDefault("analytics.default_days", d.Analytics.DefaultDays)
	v.SetDefault("analytics.max_days", d.Analytics.MaxDays)
	v.SetDefault("analytics.window_size", d.Analytics.WindowSize)
	v.SetDefault("analytics.max_window_size", d.Analytics.MaxWindowSize)
	v.SetDefault("analytics.pattern_days", d.Analytics.PatternDays)
	v.SetDefault("analytics.timezone", d.Analytics.Timezone)

	// Events defaults
	v.SetDefault("events.enabled", d.Events.Enabled)
	v.SetDefault("events.type", d.Events.Type)
	v.SetDefault("events.url", d.Events.URL)
	v.SetDefault("events.username", "")
	v.SetDefault("events.password", "")
	v.SetDefault("events.subject_prefix", d.Events.SubjectPrefix)
	v.SetDefault("events.compress", d.Events.Compress)
	v.SetDefault("events.publish_timeout", d.Events.PublishTimeout)
	v.SetDefault("events.redis_db", d.Events.RedisDB)
	v.SetDefault("events.redis_stream", d.Events.RedisStream)
	v.SetDefault("events.kafka_brokers", d.Events.KafkaBrokers)

	// Auth defaults
	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)
	v.SetDefault("auth.user_header", d.Auth.UserHeader)

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			HTTPPort:       5580,
			RequestTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend:      StoreBackendSQLite,
			DSN:          "./data/journal.db",
			Migrate:      true,
			MaxOpenConns: 10,
			QueryTimeout: 5 * time.Second,
			Table:        DefaultStoreTable,
		},
		Analytics: AnalyticsConfig{
			DefaultDays:   30,
			MaxDays:       365,
			WindowSize:    7,
			MaxWindowSize: 90,
			PatternDays:   90,
			Timezone:      "UTC",
		},
		Events: EventsConfig{
			Enabled:        false,
			Type:           "memory",
			URL:            "nats://localhost:4222",
			SubjectPrefix:  "luma.mood",
			PublishTimeout: 2 * time.Second,
			RedisStream:    "luma",
			KafkaBrokers:   []string{},
		},
		Auth: AuthConfig{
			Enabled:    false,
			APIKeys:    []string{},
			UserHeader: "X-User-ID",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
	}
}
