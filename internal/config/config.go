package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultMaxBodyBytes = 2 << 20

// Config contains runtime configuration required by the service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	WebhookPath  string        `mapstructure:"webhook_path"`
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	URL         string `mapstructure:"url"`
	SSLMode     string `mapstructure:"sslmode"`
	MaxConns    int32  `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// AuthConfig holds the optional shared secret the upstream sender presents.
type AuthConfig struct {
	WebhookToken string `mapstructure:"webhook_token"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envBindings maps config keys to the environment variables that set them,
// in priority order.
var envBindings = map[string][]string{
	"server.port":           {"PORT"},
	"server.read_timeout":   {"SERVER_READ_TIMEOUT"},
	"server.write_timeout":  {"SERVER_WRITE_TIMEOUT"},
	"server.idle_timeout":   {"SERVER_IDLE_TIMEOUT"},
	"server.max_body_bytes": {"MAX_BODY_BYTES"},
	"server.webhook_path":   {"WEBHOOK_PATH"},
	"database.url":          {"DATABASE_URL", "DB_URL"},
	"database.sslmode":      {"DB_SSLMODE", "PGSSLMODE"},
	"database.max_conns":    {"DB_MAX_CONNS"},
	"database.auto_migrate": {"DB_AUTO_MIGRATE"},
	"auth.webhook_token":    {"WEBHOOK_TOKEN"},
	"logging.level":         {"LOG_LEVEL"},
	"logging.format":        {"LOG_FORMAT"},
}

// Load reads configuration from defaults, an optional YAML file, an
// optional .env file and the environment, in increasing priority.
func Load(configPath string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_body_bytes", defaultMaxBodyBytes)
	v.SetDefault("server.webhook_path", "/webhook")
	v.SetDefault("database.url", "")
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("auth.webhook_token", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Database.URL = strings.TrimSpace(c.Database.URL)
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if !strings.HasPrefix(c.Server.WebhookPath, "/") {
		c.Server.WebhookPath = "/" + c.Server.WebhookPath
	}
	c.Auth.WebhookToken = strings.TrimSpace(c.Auth.WebhookToken)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}
