package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing host",
			mutate:      func(c *Config) { c.DB.Host = "" },
			expectError: true,
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.DB.Port = 70000 },
			expectError: true,
		},
		{
			name:        "missing user",
			mutate:      func(c *Config) { c.DB.User = "" },
			expectError: true,
		},
		{
			name:        "non-positive timeout",
			mutate:      func(c *Config) { c.DB.Timeout = 0 },
			expectError: true,
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.Logging.Level = "loud" },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DB: DBConfig{
					Host:    "localhost",
					Port:    5432,
					User:    "nadc_user",
					Timeout: 30 * time.Second,
				},
				Logging: LoggingConfig{Level: "info"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError && err == nil {
				t.Error("expected validation to fail")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMergeLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), LegacyFileName)
	content := "host = 'gemini'\nport = 5433\nuser = 'nadc_admin'\npasswd = 'secret'\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	cfg := &Config{
		DB: DBConfig{Host: "localhost", Port: 5432, User: "nadc_user", Timeout: time.Second},
	}
	if err := cfg.mergeLegacyFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DB.Host != "gemini" {
		t.Errorf("expected host gemini, got %s", cfg.DB.Host)
	}
	if cfg.DB.Port != 5433 {
		t.Errorf("expected port 5433, got %d", cfg.DB.Port)
	}
	if cfg.DB.User != "nadc_admin" {
		t.Errorf("expected user nadc_admin, got %s", cfg.DB.User)
	}
	if cfg.DB.Password != "secret" {
		t.Errorf("expected password to be set, got %q", cfg.DB.Password)
	}
}

func TestMergeLegacyFile_PartialKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), LegacyFileName)
	if err := os.WriteFile(path, []byte("host = 'gemini'\n"), 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	cfg := &Config{
		DB: DBConfig{Host: "localhost", Port: 5432, User: "nadc_user", Timeout: time.Second},
	}
	if err := cfg.mergeLegacyFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DB.Host != "gemini" {
		t.Errorf("expected host gemini, got %s", cfg.DB.Host)
	}
	if cfg.DB.User != "nadc_user" {
		t.Errorf("absent keys must keep their values, got user %s", cfg.DB.User)
	}
}

func TestConnString(t *testing.T) {
	d := &DBConfig{Host: "gemini", Port: 5432, User: "nadc_user"}
	if got := d.ConnString("scia"); got != "host=gemini port=5432 user=nadc_user dbname=scia" {
		t.Errorf("unexpected conn string: %q", got)
	}

	d.Password = "secret"
	if got := d.ConnString("gome"); got != "host=gemini port=5432 user=nadc_user dbname=gome password=secret" {
		t.Errorf("unexpected conn string: %q", got)
	}
}
