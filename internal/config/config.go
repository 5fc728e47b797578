package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Data     DataConfig     `mapstructure:"data"`
	Database DatabaseConfig `mapstructure:"database"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Comfort  ComfortConfig  `mapstructure:"comfort"`
	Resample ResampleConfig `mapstructure:"resample"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type MetricsConfig struct {
	Port    int  `mapstructure:"port"`
	Enabled bool `mapstructure:"enabled"`
}

// DataConfig selects where the snapshot is loaded from.
type DataConfig struct {
	Source         string `mapstructure:"source"` // file, http or postgres
	Path           string `mapstructure:"path"`
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (d DataConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
	Table    string `mapstructure:"table"`
}

// ConnectionString returns the lib/pq key/value connection string.
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type LimitsConfig struct {
	CacheSize      int     `mapstructure:"cache_size"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type ComfortConfig struct {
	Locale string `mapstructure:"locale"`
}

type ResampleConfig struct {
	Closed string `mapstructure:"closed"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML, expanding environment variables and
// filling unset keys with defaults.
func Parse(data []byte) (*Config, error) {
	// First unmarshal into a map to handle type conversions
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal raw config: %w", err)
	}

	// Convert the map to YAML again
	data, err := yaml.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal raw config: %w", err)
	}

	// Expand environment variables
	expandedData := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewBufferString(expandedData)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	config, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return config
}

func (c *Config) validate() error {
	switch c.Data.Source {
	case "file", "http", "postgres":
	default:
		return fmt.Errorf("invalid data.source %q: want file, http or postgres", c.Data.Source)
	}
	if c.Data.Source == "http" && c.Data.URL == "" {
		return fmt.Errorf("data.url is required for the http source")
	}
	if c.Limits.CacheSize <= 0 {
		return fmt.Errorf("limits.cache_size must be positive, got %d", c.Limits.CacheSize)
	}
	return nil
}

// NewLogger creates the application logger described by the logging section.
func (c LoggingConfig) NewLogger() (*logrus.Logger, error) {
	logger := logrus.New()

	switch strings.ToLower(c.Format) {
	case "", "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid logging.format %q", c.Format)
	}

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level: %w", err)
	}
	logger.SetLevel(level)
	return logger, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 50051)
	v.SetDefault("server.host", "0.0.0.0")

	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.enabled", true)

	v.SetDefault("data.source", "file")
	v.SetDefault("data.path", "log.txt")
	v.SetDefault("data.url", "")
	v.SetDefault("data.timeout_seconds", 30)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.table", "sensor_log")

	v.SetDefault("limits.cache_size", 1000)
	v.SetDefault("limits.rate_limit", 5.0)
	v.SetDefault("limits.rate_limit_burst", 10)

	v.SetDefault("comfort.locale", "en")
	v.SetDefault("resample.closed", "right")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
