package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ProductionAPIURL is the backend used when nothing else is configured
	ProductionAPIURL = "https://api.kamalhamza.dev"

	// DevelopmentAPIURL is the local backend used when FOLIO_ENV=development
	DevelopmentAPIURL = "http://localhost:8000"
)

type Config struct {
	// Backend
	APIURL               string `yaml:"api_url"`
	Username             string `yaml:"username"`
	PublicTimeoutSeconds int    `yaml:"public_timeout_seconds"`

	// Behaviour
	ConfirmDelete bool   `yaml:"confirm_delete"`
	BackupDir     string `yaml:"backup_dir"`
	Editor        string `yaml:"editor"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
	DateFormat string `yaml:"date_format"`

	// Public Site
	ServerAddr    string `yaml:"server_addr"`
	VisitsDB      string `yaml:"visits_db"`
	TrackVisitors bool   `yaml:"track_visitors"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		APIURL:               "",
		Username:             "",
		PublicTimeoutSeconds: 15,
		ConfirmDelete:        true,
		BackupDir:            "",
		Editor:               "",
		ColorTheme:           "auto",
		DateFormat:           "2006-01-02",
		ServerAddr:           "127.0.0.1:8080",
		VisitsDB:             "",
		TrackVisitors:        true,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.PublicTimeoutSeconds <= 0 {
		cfg.PublicTimeoutSeconds = 15
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "2006-01-02"
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = "127.0.0.1:8080"
	}
	if !isValidColorTheme(cfg.ColorTheme) {
		cfg.ColorTheme = "auto"
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// PublicTimeout returns the bound on public reads
func (c *Config) PublicTimeout() time.Duration {
	return time.Duration(c.PublicTimeoutSeconds) * time.Second
}

// Set assigns a field by its yaml key
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		c.APIURL = strings.TrimSuffix(value, "/")
	case "username":
		c.Username = value
	case "public_timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("public_timeout_seconds must be a positive number, got %q", value)
		}
		c.PublicTimeoutSeconds = n
	case "confirm_delete":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("confirm_delete must be true or false, got %q", value)
		}
		c.ConfirmDelete = b
	case "backup_dir":
		c.BackupDir = value
	case "editor":
		c.Editor = value
	case "color_theme":
		if !isValidColorTheme(value) {
			return fmt.Errorf("color_theme must be one of auto, dark, light, got %q", value)
		}
		c.ColorTheme = value
	case "date_format":
		c.DateFormat = value
	case "server_addr":
		c.ServerAddr = value
	case "visits_db":
		c.VisitsDB = value
	case "track_visitors":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("track_visitors must be true or false, got %q", value)
		}
		c.TrackVisitors = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Keys lists the settable keys in file order
func Keys() []string {
	return []string{
		"api_url", "username", "public_timeout_seconds", "confirm_delete",
		"backup_dir", "editor", "color_theme", "date_format",
		"server_addr", "visits_db", "track_visitors",
	}
}

// isValidColorTheme checks if the color theme is valid
func isValidColorTheme(theme string) bool {
	validThemes := []string{"auto", "dark", "light"}
	for _, valid := range validThemes {
		if theme == valid {
			return true
		}
	}
	return false
}
