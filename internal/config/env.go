package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string)
}{
	{
		envVar: "RIGGER_SOURCE_URL",
		apply: func(c *Config, v string) {
			c.Project.Source.URL = v
		},
	},
	{
		envVar: "RIGGER_SOURCE_REF",
		apply: func(c *Config, v string) {
			c.Project.Source.Ref = v
		},
	},
	{
		envVar: "RIGGER_STORE_PATH",
		apply: func(c *Config, v string) {
			c.StorePath = v
		},
	},
	{
		envVar: "RIGGER_CACHE_DIR",
		apply: func(c *Config, v string) {
			c.CacheDir = v
		},
	},
	{
		envVar: "RIGGER_LOG_LEVEL",
		apply: func(c *Config, v string) {
			c.LogLevel = v
		},
	},
}

// applyEnvOverrides modifies config in place with values from lookup.
func applyEnvOverrides(cfg *Config, lookup func(string) string) {
	for _, override := range envOverrides {
		if val := lookup(override.envVar); val != "" {
			override.apply(cfg, val)
		}
	}
}

// loadEnvFile reads .rigger.env from the repository root. Process environment
// variables take precedence over file values; a missing file is not an error.
func loadEnvFile(root string) (map[string]string, error) {
	path := filepath.Join(root, ".rigger.env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return vals, nil
}
