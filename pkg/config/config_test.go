package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.PublicTimeoutSeconds != 15 {
		t.Errorf("expected default PublicTimeoutSeconds=15, got %d", cfg.PublicTimeoutSeconds)
	}

	if !cfg.ConfirmDelete {
		t.Error("expected ConfirmDelete to default to true")
	}

	if cfg.APIURL != "" {
		t.Errorf("expected default APIURL='', got %q", cfg.APIURL)
	}

	if cfg.PublicTimeout() != 15*time.Second {
		t.Errorf("PublicTimeout() = %v", cfg.PublicTimeout())
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")

	if err != nil {
		t.Fatalf("unexpected error loading non-existent file: %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	if cfg.ServerAddr != "127.0.0.1:8080" {
		t.Errorf("expected default ServerAddr, got %q", cfg.ServerAddr)
	}
}

func TestSave_And_Load(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	original := DefaultConfig()
	original.APIURL = "https://api.example.com"
	original.Username = "admin"
	original.PublicTimeoutSeconds = 30
	original.ConfirmDelete = false
	original.TrackVisitors = false

	if err := original.Save(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if *loaded != *original {
		t.Errorf("loaded config = %+v, want %+v", loaded, original)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("api_url: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_url: https://api.example.com\npublic_timeout_seconds: 0\ncolor_theme: neon\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"api_url kept", cfg.APIURL, "https://api.example.com"},
		{"timeout defaulted", cfg.PublicTimeoutSeconds, 15},
		{"invalid theme reset", cfg.ColorTheme, "auto"},
		{"date format defaulted", cfg.DateFormat, "2006-01-02"},
		{"confirm_delete default survives", cfg.ConfirmDelete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       string
		expectError bool
		check       func(*Config) bool
	}{
		{"api url trims slash", "api_url", "https://api.example.com/", false, func(c *Config) bool { return c.APIURL == "https://api.example.com" }},
		{"timeout", "public_timeout_seconds", "20", false, func(c *Config) bool { return c.PublicTimeoutSeconds == 20 }},
		{"timeout rejects zero", "public_timeout_seconds", "0", true, nil},
		{"timeout rejects text", "public_timeout_seconds", "soon", true, nil},
		{"confirm delete", "confirm_delete", "false", false, func(c *Config) bool { return !c.ConfirmDelete }},
		{"confirm delete rejects junk", "confirm_delete", "maybe", true, nil},
		{"theme", "color_theme", "dark", false, func(c *Config) bool { return c.ColorTheme == "dark" }},
		{"theme rejects unknown", "color_theme", "neon", true, nil},
		{"unknown key", "theme_file", "dark.yaml", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if tt.expectError {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%q, %q) left %+v", tt.key, tt.value, cfg)
			}
		})
	}
}

func TestKeys_AllSettable(t *testing.T) {
	values := map[string]string{
		"public_timeout_seconds": "5",
		"confirm_delete":         "true",
		"track_visitors":         "true",
		"color_theme":            "light",
	}
	for _, key := range Keys() {
		value, ok := values[key]
		if !ok {
			value = "x"
		}
		if err := DefaultConfig().Set(key, value); err != nil {
			t.Errorf("Set(%q) error = %v", key, err)
		}
	}
}
