package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the process configuration. It is read once at start and
// handed to whatever needs it.
type Config struct {
	APIKey      string        `mapstructure:"api_key"`
	APIKeyParam string        `mapstructure:"api_key_param"`
	Port        int           `mapstructure:"port"`
	UpstreamURL string        `mapstructure:"upstream_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogFile     string        `mapstructure:"log_file"`
	LogLevel    string        `mapstructure:"log_level"`
}

var envKeys = map[string]string{
	"api_key":       "POLLINATIONS_API_KEY",
	"api_key_param": "POLLINATIONS_API_KEY_PARAM",
	"port":          "PORT",
	"upstream_url":  "POLLINATIONS_URL",
	"timeout":       "GENERATE_TIMEOUT",
	"log_file":      "LOG_FILE",
	"log_level":     "LOG_LEVEL",
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 3000)
	v.SetDefault("upstream_url", "https://enter.pollinations.ai")
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("log_level", "info")

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %s", cfg.Timeout)
	}

	return &cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
