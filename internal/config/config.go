// Package config assembles the service configuration from defaults, an
// optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration surface of the service.
type Config struct {
	Addr        string   `yaml:"addr"`
	DB          string   `yaml:"db"`
	JWTSecret   string   `yaml:"jwt_secret"`
	JWTAudience string   `yaml:"jwt_audience"`
	JWTIssuer   string   `yaml:"jwt_issuer"`
	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:        ":8080",
		DB:          "zaloga.sqlite3",
		JWTAudience: "authenticated",
		CORSOrigins: []string{"http://localhost:3000"},
		LogLevel:    "info",
	}
}

// Load layers the YAML file at path (if any), a .env file in the working
// directory (if present) and the process environment over the defaults.
// The result is not validated so callers can apply flag overrides first.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg.Addr = getenvWithDefault("ZALOGA_ADDR", cfg.Addr)
	cfg.DB = getenvWithDefault("ZALOGA_DB", cfg.DB)
	cfg.JWTSecret = getenvWithDefault("ZALOGA_JWT_SECRET", cfg.JWTSecret)
	cfg.JWTAudience = getenvWithDefault("ZALOGA_JWT_AUDIENCE", cfg.JWTAudience)
	cfg.JWTIssuer = getenvWithDefault("ZALOGA_JWT_ISSUER", cfg.JWTIssuer)
	cfg.LogLevel = getenvWithDefault("ZALOGA_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("ZALOGA_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	return cfg, nil
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	switch {
	case c.Addr == "":
		return errors.New("addr must not be empty")
	case c.DB == "":
		return errors.New("db must not be empty")
	case c.JWTAudience == "":
		return errors.New("jwt_audience must not be empty")
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
