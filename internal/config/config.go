// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Zakeke        ZakekeConfig        `yaml:"zakeke"`
	Stock         StockConfig         `yaml:"stock"`
	Orders        OrdersConfig        `yaml:"orders"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// ZakekeConfig defines Zakeke API settings.
type ZakekeConfig struct {
	ClientID           string          `yaml:"client_id"`
	SecretKey          string          `yaml:"secret_key"`
	BaseURL            string          `yaml:"base_url"`
	Timeout            time.Duration   `yaml:"timeout"`
	MaxImportsPerCycle int             `yaml:"max_imports_per_cycle"`
	RateLimit          RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines Zakeke API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// StockConfig defines the stock service settings.
type StockConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// OrdersConfig defines order processing settings.
type OrdersConfig struct {
	// PendingStatus selects the orders scanned for missing print images.
	PendingStatus string `yaml:"pending_status"`
	// CompletedStatus is assigned once every customized line item has its
	// print image attached.
	CompletedStatus string `yaml:"completed_status"`
	// ScratchDir is the root for per-item download/extract directories.
	ScratchDir string `yaml:"scratch_dir"`
}

// ScheduleConfig defines cron intervals for the three sync jobs.
type ScheduleConfig struct {
	ImportInterval   time.Duration `yaml:"import_interval"`
	StatusInterval   time.Duration `yaml:"status_interval"`
	ArtifactInterval time.Duration `yaml:"artifact_interval"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyZakekeDefaults(&cfg.Zakeke)
	applyStockDefaults(&cfg.Stock)
	applyOrdersDefaults(&cfg.Orders)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyZakekeDefaults(z *ZakekeConfig) {
	if z.BaseURL == "" {
		z.BaseURL = "https://api.zakeke.com/"
	}
	if z.Timeout == 0 {
		z.Timeout = 30 * time.Second
	}
	if z.MaxImportsPerCycle == 0 {
		z.MaxImportsPerCycle = 5
	}
	applyRateLimitDefaults(&z.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyStockDefaults(s *StockConfig) {
	if s.Timeout == 0 {
		s.Timeout = 30 * time.Second
	}
}

func applyOrdersDefaults(o *OrdersConfig) {
	if o.PendingStatus == "" {
		o.PendingStatus = "processing"
	}
	if o.CompletedStatus == "" {
		o.CompletedStatus = "ready-to-ship"
	}
	if o.ScratchDir == "" {
		o.ScratchDir = os.TempDir() + "/zakeke-sync"
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.ImportInterval == 0 {
		s.ImportInterval = time.Minute
	}
	if s.StatusInterval == 0 {
		s.StatusInterval = time.Minute
	}
	if s.ArtifactInterval == 0 {
		s.ArtifactInterval = time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Zakeke.ClientID == "" {
		errs = append(errs, fmt.Errorf("zakeke.client_id is required"))
	}
	if cfg.Zakeke.SecretKey == "" {
		errs = append(errs, fmt.Errorf("zakeke.secret_key is required"))
	}
	if cfg.Stock.BaseURL == "" {
		errs = append(errs, fmt.Errorf("stock.base_url is required"))
	}
	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	return errors.Join(errs...)
}
