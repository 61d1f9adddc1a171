package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/pkg/config"
)

const (
	envAPIURL = "FOLIO_API_URL"
	envMode   = "FOLIO_ENV"
)

// URLSource says where a resolved base URL came from
type URLSource string

const (
	SourceFlag    URLSource = "flag"
	SourceEnv     URLSource = "env"
	SourceConfig  URLSource = "config"
	SourceDefault URLSource = "default"
)

// SettingsService resolves and persists client settings
type SettingsService struct {
	cfg        *config.Config
	configPath string
	getenv     func(string) string
}

// NewSettingsService creates a new settings service over a loaded config
func NewSettingsService(cfg *config.Config, configPath string) *SettingsService {
	return &SettingsService{
		cfg:        cfg,
		configPath: configPath,
		getenv:     os.Getenv,
	}
}

// LoadDotEnv reads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Config returns the loaded configuration
func (s *SettingsService) Config() *config.Config {
	return s.cfg
}

// ConfigPath returns the config file location
func (s *SettingsService) ConfigPath() string {
	return s.configPath
}

// ResolveAPIURL picks the backend root: flag, then FOLIO_API_URL, then the
// config file, then the default for the current environment
func (s *SettingsService) ResolveAPIURL(flag string) (string, URLSource, error) {
	candidates := []struct {
		value  string
		source URLSource
	}{
		{flag, SourceFlag},
		{s.getenv(envAPIURL), SourceEnv},
		{s.cfg.APIURL, SourceConfig},
	}

	for _, c := range candidates {
		value := strings.TrimSuffix(strings.TrimSpace(c.value), "/")
		if value == "" {
			continue
		}
		if err := domain.ValidateHTTPURL("api_url", value); err != nil {
			return "", c.source, fmt.Errorf("invalid API URL from %s: %w", c.source, err)
		}
		return value, c.source, nil
	}
	return s.DefaultAPIURL(), SourceDefault, nil
}

// DefaultAPIURL is the local backend in development, production otherwise
func (s *SettingsService) DefaultAPIURL() string {
	if strings.EqualFold(s.getenv(envMode), "development") {
		return config.DevelopmentAPIURL
	}
	return config.ProductionAPIURL
}

// SetAPIURL validates and stores a new backend root
func (s *SettingsService) SetAPIURL(raw string) (string, error) {
	value := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if err := domain.ValidateHTTPURL("api_url", value); err != nil {
		return "", err
	}
	if err := s.Set("api_url", value); err != nil {
		return "", err
	}
	return value, nil
}

// Set assigns a config key and saves the file
func (s *SettingsService) Set(key, value string) error {
	if key == "api_url" && strings.TrimSpace(value) != "" {
		if err := domain.ValidateHTTPURL("api_url", strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	if err := s.cfg.Set(key, value); err != nil {
		return err
	}
	return s.cfg.Save(s.configPath)
}

// Reload re-reads the config file in place
func (s *SettingsService) Reload() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	*s.cfg = *cfg
	return nil
}
