package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	OpenAI OpenAIConfig `yaml:"openai"`
	Audio  AudioConfig  `yaml:"audio"`
	Chat   ChatConfig   `yaml:"chat"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Debug bool   `yaml:"debug"`
	// RequestsPerMinute is declared for operators but not enforced by
	// any middleware.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type AudioConfig struct {
	Dir             string   `yaml:"dir"`
	MaxSizeMB       int      `yaml:"max_size_mb"`
	Formats         []string `yaml:"formats"`
	DefaultVoice    string   `yaml:"default_voice"`
	Retention       string   `yaml:"retention"`
	CleanupInterval string   `yaml:"cleanup_interval"`
}

type ChatConfig struct {
	HistoryWindow int `yaml:"history_window"`
	MaxTurns      int `yaml:"max_turns"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("openai.api_key is required")
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.RequestsPerMinute == 0 {
		c.Server.RequestsPerMinute = 60
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.Audio.Dir == "" {
		c.Audio.Dir = "./audio_files"
	}
	if c.Audio.MaxSizeMB == 0 {
		c.Audio.MaxSizeMB = 25
	}
	if len(c.Audio.Formats) == 0 {
		c.Audio.Formats = []string{".mp3", ".wav", ".m4a", ".ogg"}
	}
	if c.Audio.DefaultVoice == "" {
		c.Audio.DefaultVoice = "alloy"
	}
	if c.Audio.Retention == "" {
		c.Audio.Retention = "24h"
	}
	if c.Audio.CleanupInterval == "" {
		c.Audio.CleanupInterval = "1h"
	}
	if c.Chat.HistoryWindow == 0 {
		c.Chat.HistoryWindow = 10
	}
	if c.Chat.MaxTurns == 0 {
		c.Chat.MaxTurns = 200
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
