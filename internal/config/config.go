package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string `yaml:"addr" json:"addr"`
	DataDir       string `yaml:"data_dir" json:"data_dir"`
	StaticDir     string `yaml:"static_dir" json:"static_dir"`
	UseDiskStatic bool   `yaml:"use_disk_static" json:"use_disk_static"`

	// BaseURL is the address phones reach the app on; it feeds the
	// QR/share surface.
	BaseURL string `yaml:"base_url" json:"base_url"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	Sheet SheetConfig `yaml:"sheet" json:"sheet"`
}

type SheetConfig struct {
	// DefaultWebhookURL pre-fills the settings record on first boot so a
	// fresh install syncs without anyone pasting the script URL again.
	DefaultWebhookURL string `yaml:"default_webhook_url" json:"default_webhook_url"`
	PushTimeoutS      int    `yaml:"push_timeout_s" json:"push_timeout_s"`
}

func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8085"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8085"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Sheet.PushTimeoutS <= 0 {
		c.Sheet.PushTimeoutS = 30
	}
}

// Load reads the YAML config file and applies env overrides on top. A
// missing file is fine: defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	c.FromEnv()
	c.ApplyDefaults()
	return &c, nil
}
