package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ConfigFileEnv names an optional YAML or TOML file read before the
// environment. Environment variables override values from the file.
const ConfigFileEnv = "LUBETRACK_CONFIG"

type Config struct {
	ListenAddr     string `mapstructure:"listen_addr"`
	StoreBackend   string `mapstructure:"store_backend"`
	DBPath         string `mapstructure:"db_path"`
	AdvisorBackend string `mapstructure:"advisor_backend"`
	ClaudeAPIKey   string `mapstructure:"claude_api_key"`
	ClaudeModel    string `mapstructure:"claude_model"`
	OllamaHost     string `mapstructure:"ollama_host"`
	OllamaModel    string `mapstructure:"ollama_model"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	LogFile        string `mapstructure:"log_file"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

var defaults = map[string]any{
	"listen_addr":     ":8080",
	"store_backend":   "sqlite",
	"db_path":         "/data/lubetrack.db",
	"advisor_backend": "none",
	"claude_api_key":  "",
	"claude_model":    "claude-sonnet-4-5",
	"ollama_host":     "http://localhost:11434",
	"ollama_model":    "llama3.1",
	"log_level":       "info",
	"log_format":      "json",
	"log_file":        "",
	"metrics_enabled": true,
}

func Load() (*Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q: want sqlite or memory", c.StoreBackend)
	}
	switch c.AdvisorBackend {
	case "claude", "ollama", "none":
	default:
		return fmt.Errorf("unknown ADVISOR_BACKEND %q: want claude, ollama or none", c.AdvisorBackend)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q: want json or text", c.LogFormat)
	}
	return nil
}
