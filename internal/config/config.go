package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port               int    `env:"PORT" envDefault:"7070"`
	APIBaseURL         string `env:"API_BASE_URL" envDefault:"http://localhost:8000/api/v1"`
	ActuatorBaseURL    string `env:"ACTUATOR_BASE_URL" envDefault:"http://localhost:8000/actuator"`
	HealthPollSeconds  int    `env:"HEALTH_POLL_SECONDS" envDefault:"30"`
	HTTPTimeoutSeconds int    `env:"HTTP_TIMEOUT_SECONDS" envDefault:"15"`
	SessionFile        string `env:"SESSION_FILE" envDefault:".sowl-session.json"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) HealthPollInterval() time.Duration {
	return time.Duration(c.HealthPollSeconds) * time.Second
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"API_BASE_URL":      c.APIBaseURL,
		"ACTUATOR_BASE_URL": c.ActuatorBaseURL,
	} {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}

	if c.HealthPollSeconds <= 0 {
		return fmt.Errorf("HEALTH_POLL_SECONDS must be positive, got %d", c.HealthPollSeconds)
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutSeconds)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
