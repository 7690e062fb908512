package config

import (
	"os"
	"strings"
)

// FromEnv overrides config fields from COMMAGRA_* variables. Unset
// variables leave the file/default values in place.
func (c *Config) FromEnv() {
	if v := getEnv("COMMAGRA_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getEnv("COMMAGRA_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getEnv("COMMAGRA_STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := getEnv("COMMAGRA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getEnv("COMMAGRA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("COMMAGRA_SHEET_URL"); v != "" {
		c.Sheet.DefaultWebhookURL = v
	}
	if getEnvBool("COMMAGRA_DEV_STATIC") {
		c.UseDiskStatic = true
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvBool(key string) bool {
	switch strings.ToLower(getEnv(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
