// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config loads application configuration from built-in defaults,
// an optional YAML file and environment variables, in that order of
// increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

// DefaultPaths are searched in order when PathEnvVar is unset.
var DefaultPaths = []string{"config.yaml", "config.yml", "/etc/qaboard/config.yaml"}

// Config holds all application configuration values.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Valkey   ValkeyConfig   `koanf:"valkey"`
	S3       S3Config       `koanf:"s3"`
	Star     StarConfig     `koanf:"star"`
	Limits   LimitsConfig   `koanf:"limits"`
	Log      LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Host        string   `koanf:"host"`
	Port        string   `koanf:"port"`
	Env         string   `koanf:"env"` // "development", "production", "testing"
	CORSOrigins []string `koanf:"cors_origins"`
}

type DatabaseConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
}

type ValkeyConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// S3Config points at the media host. An empty Endpoint disables uploads.
type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Region    string `koanf:"region"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	PublicURL string `koanf:"public_url"`
}

// StarConfig controls the background weekly star job.
type StarConfig struct {
	Interval time.Duration `koanf:"interval"`
	Enabled  bool          `koanf:"enabled"`
}

// LimitsConfig sizes per-IP rate limits on auth and write routes.
type LimitsConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Env:  "development",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "qaboard",
			Password: "changeme",
			Name:     "qaboard",
		},
		Valkey: ValkeyConfig{
			Host: "localhost",
			Port: "6379",
		},
		S3: S3Config{
			Region: "us-east-1",
			Bucket: "qaboard-public",
		},
		Star: StarConfig{
			Interval: time.Hour,
			Enabled:  true,
		},
		Limits: LimitsConfig{
			Requests: 20,
			Window:   time.Minute,
		},
		Log: LogConfig{Level: "info"},
	}
}

var envMappings = map[string]string{
	"app_host":            "server.host",
	"app_port":            "server.port",
	"app_env":             "server.env",
	"cors_origins":        "server.cors_origins",
	"postgres_host":       "database.host",
	"postgres_port":       "database.port",
	"postgres_user":       "database.user",
	"postgres_password":   "database.password",
	"postgres_db":         "database.name",
	"valkey_host":         "valkey.host",
	"valkey_port":         "valkey.port",
	"valkey_password":     "valkey.password",
	"valkey_db":           "valkey.db",
	"s3_endpoint":         "s3.endpoint",
	"s3_region":           "s3.region",
	"s3_access_key":       "s3.access_key",
	"s3_secret_key":       "s3.secret_key",
	"s3_bucket":           "s3.bucket",
	"s3_public_url":       "s3.public_url",
	"star_interval":       "star.interval",
	"star_enabled":        "star.enabled",
	"rate_limit_requests": "limits.requests",
	"rate_limit_window":   "limits.window",
	"log_level":           "log.level",
}

// sliceKeys arrive from the environment as comma-separated strings.
var sliceKeys = []string{"server.cors_origins"}

// Load builds the configuration with precedence env > file > defaults.
// An explicit path overrides CONFIG_PATH and the default search paths.
func Load(path ...string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	explicit := ""
	if len(path) > 0 {
		explicit = path[0]
	}
	if p := findFile(explicit); p != "" {
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", p, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps a known environment variable to its config path. Unknown and
// empty variables are skipped.
func envKey(key string) string {
	if os.Getenv(key) == "" {
		return ""
	}
	return envMappings[strings.ToLower(key)]
}

func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("APP_PORT must not be empty"))
	}
	if c.Valkey.DB < 0 || c.Valkey.DB > 15 {
		errs = append(errs, fmt.Errorf("VALKEY_DB must be 0-15, got %d", c.Valkey.DB))
	}
	if c.Star.Interval <= 0 {
		errs = append(errs, errors.New("STAR_INTERVAL must be positive"))
	}
	if c.Limits.Requests <= 0 || c.Limits.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Server.Env == "production" && c.Database.Password == "changeme" {
		errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Server.Env == "development"
}

// StorageEnabled reports whether a media host is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3.Endpoint != ""
}
