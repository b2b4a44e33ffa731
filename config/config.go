package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AI providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderHTTP      = "http"
	ProviderNone      = "none"
)

type Config struct {
	ServerPort  string `yaml:"server_port"`
	MaxFileSize int64  `yaml:"max_upload_bytes"`

	AIProvider           string        `yaml:"ai_provider"`
	AnthropicAPIKey      string        `yaml:"anthropic_api_key"`
	AIModel              string        `yaml:"ai_model"`
	AITimeout            time.Duration `yaml:"ai_timeout"`
	ExtractionServiceURL string        `yaml:"extraction_service_url"`

	DBPath               string        `yaml:"db_path"`
	SessionTTL           time.Duration `yaml:"session_ttl"`
	SessionPurgeSchedule string        `yaml:"session_purge_schedule"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// LoadConfig reads the optional YAML file named by CONFIG_PATH (default
// config.yaml), applies environment overrides and fills defaults.
func LoadConfig() (*Config, error) {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	// Env vars override YAML values
	envOverride(&cfg.ServerPort, "SERVER_PORT")
	if err := envOverrideInt64(&cfg.MaxFileSize, "MAX_UPLOAD_BYTES"); err != nil {
		return nil, err
	}
	envOverride(&cfg.AIProvider, "AI_PROVIDER")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.AIModel, "AI_MODEL")
	if err := envOverrideDuration(&cfg.AITimeout, "AI_TIMEOUT"); err != nil {
		return nil, err
	}
	envOverride(&cfg.ExtractionServiceURL, "EXTRACTION_SERVICE_URL")
	envOverride(&cfg.DBPath, "DB_PATH")
	if err := envOverrideDuration(&cfg.SessionTTL, "SESSION_TTL"); err != nil {
		return nil, err
	}
	envOverride(&cfg.SessionPurgeSchedule, "SESSION_PURGE_SCHEDULE")
	envOverride(&cfg.LogLevel, "LOG_LEVEL")
	envOverride(&cfg.LogFormat, "LOG_FORMAT")

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ServerPort == "" {
		c.ServerPort = "8080"
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = 10 * 1024 * 1024 // 10 MB
	}
	if c.AIProvider == "" {
		if c.AnthropicAPIKey != "" {
			c.AIProvider = ProviderAnthropic
		} else {
			c.AIProvider = ProviderNone
		}
	}
	c.AIProvider = strings.ToLower(c.AIProvider)
	if c.AITimeout == 0 {
		c.AITimeout = 30 * time.Second
	}
	if c.DBPath == "" {
		c.DBPath = "payslip.db"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.SessionPurgeSchedule == "" {
		c.SessionPurgeSchedule = "@every 1h"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate rejects settings that cannot work together.
func (c *Config) Validate() error {
	switch c.AIProvider {
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return errors.New("anthropic_api_key is required when ai_provider=anthropic")
		}
	case ProviderHTTP:
		if c.ExtractionServiceURL == "" {
			return errors.New("extraction_service_url is required when ai_provider=http")
		}
	case ProviderNone:
	default:
		return fmt.Errorf("ai_provider must be 'anthropic', 'http' or 'none', got '%s'", c.AIProvider)
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("invalid max_upload_bytes '%d': must be > 0", c.MaxFileSize)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("invalid ai_timeout '%s': must be > 0", c.AITimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid session_ttl '%s': must be > 0", c.SessionTTL)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level '%s'", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format '%s': must be 'text' or 'json'", c.LogFormat)
	}
	return nil
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt64(field *int64, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideDuration(field *time.Duration, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
