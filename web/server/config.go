package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the HTTP host settings, read from FERMI_* environment
// variables.
type Config struct {
	Address        string `env:"FERMI_ADDR" envDefault:":8080"`
	DefaultSamples int    `env:"FERMI_SAMPLES" envDefault:"10000"`
	MaxSamples     int    `env:"FERMI_MAX_SAMPLES" envDefault:"1000000"`
	// Seed fixes the generator seed for requests that do not send one. Zero
	// draws a fresh seed per request.
	Seed uint64 `env:"FERMI_SEED" envDefault:"0"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DefaultSamples <= 0 {
		return Config{}, fmt.Errorf("FERMI_SAMPLES must be positive, got %d", cfg.DefaultSamples)
	}
	if cfg.MaxSamples < cfg.DefaultSamples {
		return Config{}, fmt.Errorf("FERMI_MAX_SAMPLES (%d) is below FERMI_SAMPLES (%d)", cfg.MaxSamples, cfg.DefaultSamples)
	}
	return cfg, nil
}
