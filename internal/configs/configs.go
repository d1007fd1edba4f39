/*
Package configs is responsible for loading and parsing the application's
configuration settings.

All values come from environment variables, with development-friendly defaults.
Entrypoints may load a .env file first (godotenv) before calling LoadConfig.
*/
package configs

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig contains all configuration parameters required to run the relay
// and the terminal client.
type AppConfig struct {
	// Environment selects logging and CORS behavior ("development" or "production").
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Port is the TCP port the relay listens on.
	Port int `env:"PORT" envDefault:"3000"`

	// AllowedOrigins lists browser origins permitted to open connections in
	// production. Ignored in development, where every origin is accepted.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// RelayURL is the websocket endpoint the terminal client dials.
	RelayURL string `env:"RELAY_URL" envDefault:"ws://localhost:3000/ws"`
}

// LoadConfig reads and validates the application configuration from
// environment variables.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	if cfg.Environment != "development" && len(cfg.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("ALLOWED_ORIGINS is required in %s environment", cfg.Environment)
	}

	return cfg, nil
}

// IsDevelopment reports whether the configuration targets a development setup.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}
