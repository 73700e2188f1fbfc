package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Backend struct {
		BaseURL               string `yaml:"baseUrl"`
		RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
		SubmitTimeoutSeconds  int    `yaml:"submitTimeoutSeconds"`
		PollIntervalSeconds   int    `yaml:"pollIntervalSeconds"`
	} `yaml:"backend"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"ratelimit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8087
	}
	if c.Backend.RequestTimeoutSeconds == 0 {
		c.Backend.RequestTimeoutSeconds = 15
	}
	if c.Backend.SubmitTimeoutSeconds == 0 {
		// analisa full bisa lama, default timeout panjang
		c.Backend.SubmitTimeoutSeconds = 600
	}
	if c.Backend.PollIntervalSeconds == 0 {
		c.Backend.PollIntervalSeconds = 2
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 30
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 10
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		return fmt.Errorf("backend.baseUrl is required")
	}
	if c.Backend.PollIntervalSeconds < 1 {
		return fmt.Errorf("backend.pollIntervalSeconds must be >= 1")
	}
	return nil
}

// Helper untuk build durasi dari detik di config
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.RequestTimeoutSeconds) * time.Second
}

func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.Backend.SubmitTimeoutSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Backend.PollIntervalSeconds) * time.Second
}
