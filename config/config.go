package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// HTTP server configuration
	HTTPAddr         string
	CORSAllowOrigins []string

	// Sweeper configuration
	SweepInterval time.Duration
	SweepEnabled  bool

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from a .env file (if present) and environment
// variables
func load() (*Config, error) {
	// Missing .env is fine; environment variables still apply
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		HTTPAddr:         ":8080",
		CORSAllowOrigins: []string{"*"},

		SweepInterval: 30 * time.Second,
		SweepEnabled:  true,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		config.HTTPAddr = addr
	}
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		config.CORSAllowOrigins = splitAndTrim(origins)
	}
	if interval := os.Getenv("SWEEP_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
		}
		config.SweepInterval = parsed
	}
	if os.Getenv("SWEEP_ENABLED") == "false" {
		config.SweepEnabled = false
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
