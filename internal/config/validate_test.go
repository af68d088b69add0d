package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riggerci/rigger/internal/trigger"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Project.Source.URL = "https://github.com/pmgteam/porous-sim.git"
	return cfg
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(validConfig()))
}

func TestValidateConfig_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unresolved source url",
			mutate:  func(c *Config) { c.Project.Source.URL = "auto" },
			wantErr: "project.source.url",
		},
		{
			name:    "empty base image",
			mutate:  func(c *Config) { c.Environment.BaseImage = "" },
			wantErr: "environment.base_image",
		},
		{
			name:    "empty manifest",
			mutate:  func(c *Config) { c.Environment.Manifest = "" },
			wantErr: "environment.manifest",
		},
		{
			name:    "empty workdir",
			mutate:  func(c *Config) { c.Environment.WorkDir = "" },
			wantErr: "environment.workdir",
		},
		{
			name: "unnamed system package",
			mutate: func(c *Config) {
				c.Environment.SystemPackages[0].Name = ""
			},
			wantErr: "system_packages[0]",
		},
		{
			name:    "no versions",
			mutate:  func(c *Config) { c.Matrix.Versions = nil },
			wantErr: "matrix.versions",
		},
		{
			name:    "empty version",
			mutate:  func(c *Config) { c.Matrix.Versions = []string{"3.10", ""} },
			wantErr: "matrix.versions[1]",
		},
		{
			name:    "zero parallelism",
			mutate:  func(c *Config) { c.Matrix.Parallelism = 0 },
			wantErr: "matrix.parallelism",
		},
		{
			name: "invalid trigger",
			mutate: func(c *Config) {
				c.Triggers = []trigger.Trigger{{Kind: trigger.KindSchedule}}
			},
			wantErr: "triggers[0]",
		},
		{
			name:    "empty store path",
			mutate:  func(c *Config) { c.StorePath = "" },
			wantErr: "store_path",
		},
		{
			name:    "empty cache dir",
			mutate:  func(c *Config) { c.CacheDir = "" },
			wantErr: "cache_dir",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log_level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateConfig_JoinsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "verbose"
	cfg.Matrix.Parallelism = 0

	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "matrix.parallelism")
}

func TestDefaultTriggers_AllValid(t *testing.T) {
	for _, trig := range DefaultTriggers() {
		assert.NoError(t, trig.Validate())
	}
}

func TestDefaultTriggers_Suites(t *testing.T) {
	triggers := DefaultTriggers()
	require.Len(t, triggers, 3)

	// push to develop and the nightly schedule are static; the weekly
	// schedule runs the full suite
	assert.Equal(t, trigger.SuiteStatic, triggers[0].SuiteFor())
	assert.Equal(t, trigger.SuiteStatic, triggers[1].SuiteFor())
	assert.Equal(t, trigger.SuiteFull, triggers[2].SuiteFor())
}
