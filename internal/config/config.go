package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name" json:"app_name"`
	Env      string `mapstructure:"app_env" json:"app_env"`
	LogLevel string `mapstructure:"log_level" json:"log_level"`

	SurrealURL            string        `mapstructure:"surreal_url" json:"surreal_url"`
	SurrealNamespace      string        `mapstructure:"surreal_ns" json:"surreal_ns"`
	SurrealDatabase       string        `mapstructure:"surreal_db" json:"surreal_db"`
	SurrealUser           string        `mapstructure:"surreal_user" json:"surreal_user"`
	SurrealPass           string        `mapstructure:"surreal_pass" json:"-"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds" json:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-" json:"-"`

	DemoTable    string `mapstructure:"demo_table" json:"demo_table"`
	FixturesFile string `mapstructure:"fixtures_file" json:"fixtures_file"`

	SourcesFile           string        `mapstructure:"sources_file" json:"sources_file"`
	PublishersFile        string        `mapstructure:"publishers_file" json:"publishers_file"`
	ExportIntervalSeconds int64         `mapstructure:"export_interval" json:"export_interval"`
	ExportInterval        time.Duration `mapstructure:"-" json:"-"`

	StorageType            string        `mapstructure:"storage_type" json:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path" json:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds" json:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds" json:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-" json:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-" json:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "surreal-http")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("surreal_url", "http://localhost:8000/")
	v.SetDefault("surreal_ns", "test")
	v.SetDefault("surreal_db", "test")
	v.SetDefault("surreal_user", "root")
	v.SetDefault("surreal_pass", "root")
	v.SetDefault("request_timeout_seconds", 30)
	v.SetDefault("demo_table", "test")
	v.SetDefault("fixtures_file", "./configs/fixtures.yaml")
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("export_interval", 300) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/exported.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates the raw values and derives durations.
func (c *Config) finalize() error {
	if strings.TrimSpace(c.SurrealURL) == "" {
		return fmt.Errorf("surreal_url is required")
	}
	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("invalid request_timeout_seconds (must not be negative)")
	}
	c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second

	if c.ExportIntervalSeconds <= 0 {
		return fmt.Errorf("invalid export_interval (must be positive seconds)")
	}
	c.ExportInterval = time.Duration(c.ExportIntervalSeconds) * time.Second

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second
	return nil
}

// Surreal returns the client connection settings.
func (c *Config) Surreal() surreal.Config {
	return surreal.Config{
		URL:       c.SurrealURL,
		Namespace: c.SurrealNamespace,
		Database:  c.SurrealDatabase,
		Username:  c.SurrealUser,
		Password:  c.SurrealPass,
	}
}
