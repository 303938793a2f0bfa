package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Agent   AgentConfig   `yaml:"agent"`
	Preview PreviewConfig `yaml:"preview"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// AgentConfig locates the upstream assistant backend the chat streams come
// from.
type AgentConfig struct {
	URL string `yaml:"url"`
}

// PreviewConfig locates the preview host and sets the refresh debounce.
type PreviewConfig struct {
	URL       string `yaml:"url"`
	RefreshMS int    `yaml:"refresh_ms"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "appforge.db",
		},
		Agent: AgentConfig{
			URL: "http://localhost:5000",
		},
		Preview: PreviewConfig{
			RefreshMS: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("APPFORGE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("APPFORGE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("APPFORGE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid APPFORGE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("APPFORGE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if url := os.Getenv("APPFORGE_AGENT_URL"); url != "" {
		cfg.Agent.URL = url
	}
	if url := os.Getenv("APPFORGE_PREVIEW_URL"); url != "" {
		cfg.Preview.URL = url
	}
	if msStr := os.Getenv("APPFORGE_PREVIEW_REFRESH_MS"); msStr != "" {
		ms, err := strconv.Atoi(msStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid APPFORGE_PREVIEW_REFRESH_MS: %w", err)
		}
		cfg.Preview.RefreshMS = ms
	}
	if level := os.Getenv("APPFORGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
