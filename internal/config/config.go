// Package config provides configuration management for the archive inquiry
// tools. Settings come from environment variables, optionally overridden by
// the legacy nadc.config.xml key-file carried over from the original
// deployment.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/spf13/viper"
)

// LegacyFileName is the connection file searched in the working directory
// and the user's home directory.
const LegacyFileName = "nadc.config.xml"

// Config holds the complete application configuration.
type Config struct {
	DB      DBConfig      `envPrefix:"NADC_DB_"`
	Archive ArchiveConfig `envPrefix:"NADC_ARCHIVE_"`
	Logging LoggingConfig `envPrefix:"NADC_LOG_"`
}

// DBConfig contains the PostgreSQL connection settings. Only a
// host/user/password triple is passed on; anything beyond that is the
// connection factory's concern.
type DBConfig struct {
	Host     string        `env:"HOST" envDefault:"localhost"`
	Port     int           `env:"PORT" envDefault:"5432"`
	User     string        `env:"USER" envDefault:"nadc_user"`
	Password string        `env:"PASSWORD"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// ArchiveConfig locates the local SQLite path registry used to resolve
// product names to archive file paths.
type ArchiveConfig struct {
	// PathDB overrides the per-instrument default registry location.
	PathDB string `env:"PATH_DB"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level   string `env:"LEVEL" envDefault:"info"`
	Console bool   `env:"CONSOLE" envDefault:"true"`
}

// Load parses configuration from environment variables and merges the
// legacy connection file when one is found.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if path := findLegacyFile(); path != "" {
		if err := cfg.mergeLegacyFile(path); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DB.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535, got %d", c.DB.Port)
	}
	if c.DB.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.DB.Timeout <= 0 {
		return fmt.Errorf("database timeout must be positive, got %s", c.DB.Timeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

// ConnString renders the pgx connection string for one instrument database.
func (d *DBConfig) ConnString(database string) string {
	s := fmt.Sprintf("host=%s port=%d user=%s dbname=%s", d.Host, d.Port, d.User, database)
	if d.Password != "" {
		s += " password=" + d.Password
	}
	return s
}

// findLegacyFile looks for the legacy connection file in the working
// directory first, then in the user's home directory.
func findLegacyFile() string {
	if _, err := os.Stat(LegacyFileName); err == nil {
		return LegacyFileName
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, LegacyFileName)
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// mergeLegacyFile overrides the connection settings with values from the
// legacy key-file. The file is a flat list of key = 'value' lines, which
// parses as TOML literal strings.
func (c *Config) mergeLegacyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return err
	}

	if v.IsSet("host") {
		c.DB.Host = v.GetString("host")
	}
	if v.IsSet("port") {
		c.DB.Port = v.GetInt("port")
	}
	if v.IsSet("user") {
		c.DB.User = v.GetString("user")
	}
	if v.IsSet("passwd") {
		c.DB.Password = v.GetString("passwd")
	}
	return nil
}
