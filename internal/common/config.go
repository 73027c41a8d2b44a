// Package common provides shared utilities for Papergate
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Papergate
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Auth        AuthConfig    `toml:"auth"`
	Relay       RelayConfig   `toml:"relay"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// AuthConfig holds gateway authentication configuration.
//
// MasterKey and MasterKeyHash are alternatives: when MasterKeyHash is set it
// takes precedence and the key presented at /auth/token is checked with
// bcrypt, so the plaintext never has to live in config.
type AuthConfig struct {
	MasterKey          string `toml:"master_key"`
	MasterKeyHash      string `toml:"master_key_hash"`
	TempKeySalt        string `toml:"temp_key_salt"`
	TokenTTL           string `toml:"token_ttl"`      // duration string, default "1h"
	NonceWindow        string `toml:"nonce_window"`   // duration string, default "5m"
	TimestampSkew      string `toml:"timestamp_skew"` // duration string, default "5m"
	RateLimitPerMinute int    `toml:"rate_limit_per_minute"`
}

// GetTokenTTL parses and returns the token time-to-live.
func (c *AuthConfig) GetTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return time.Hour
	}
	return d
}

// GetNonceWindow parses and returns the replay nonce window.
func (c *AuthConfig) GetNonceWindow() time.Duration {
	d, err := time.ParseDuration(c.NonceWindow)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetTimestampSkew parses and returns the maximum request timestamp skew.
func (c *AuthConfig) GetTimestampSkew() time.Duration {
	d, err := time.ParseDuration(c.TimestampSkew)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// RelayConfig holds relay behaviour configuration
type RelayConfig struct {
	Backend         string `toml:"backend"`         // "glm" or "gemini"
	TargetLanguage  string `toml:"target_language"` // translation target, default "Chinese"
	MaxExtractChars int    `toml:"max_extract_chars"`
}

// ClientsConfig holds upstream API client configurations
type ClientsConfig struct {
	GLM    GLMConfig    `toml:"glm"`
	Gemini GeminiConfig `toml:"gemini"`
}

// GLMConfig holds GLM chat-completions API configuration
type GLMConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the upstream call timeout
func (c *GLMConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Auth: AuthConfig{
			TempKeySalt:        "pdf-translator-2024-salt",
			TokenTTL:           "1h",
			NonceWindow:        "5m",
			TimestampSkew:      "5m",
			RateLimitPerMinute: 30,
		},
		Relay: RelayConfig{
			Backend:         "glm",
			TargetLanguage:  "Chinese",
			MaxExtractChars: 50000,
		},
		Clients: ClientsConfig{
			GLM: GLMConfig{
				BaseURL:   "https://open.bigmodel.cn/api/paas/v4",
				Model:     "glm-4",
				RateLimit: 10,
				Timeout:   "60s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PAPERGATE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PAPERGATE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PAPERGATE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PAPERGATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Auth overrides
	if v := os.Getenv("MASTER_KEY"); v != "" {
		config.Auth.MasterKey = v
	}
	if v := os.Getenv("PAPERGATE_MASTER_KEY"); v != "" {
		config.Auth.MasterKey = v
	}
	if v := os.Getenv("PAPERGATE_MASTER_KEY_HASH"); v != "" {
		config.Auth.MasterKeyHash = v
	}
	if v := os.Getenv("PAPERGATE_TEMP_KEY_SALT"); v != "" {
		config.Auth.TempKeySalt = v
	}
	if v := os.Getenv("PAPERGATE_TOKEN_TTL"); v != "" {
		config.Auth.TokenTTL = v
	}

	// Upstream client overrides (GLM_* / GEMINI_* kept for drop-in
	// compatibility with existing deployments)
	if v := os.Getenv("GLM_API_KEY"); v != "" {
		config.Clients.GLM.APIKey = v
	}
	if v := os.Getenv("GLM_API_BASE"); v != "" {
		config.Clients.GLM.BaseURL = v
	}
	if v := os.Getenv("GLM_MODEL"); v != "" {
		config.Clients.GLM.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Clients.Gemini.APIKey = v
	}
	if v := os.Getenv("PAPERGATE_RELAY_BACKEND"); v != "" {
		config.Relay.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("PAPERGATE_TARGET_LANGUAGE"); v != "" {
		config.Relay.TargetLanguage = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
