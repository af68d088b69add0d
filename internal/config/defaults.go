package config

import (
	"github.com/riggerci/rigger/internal/envspec"
	"github.com/riggerci/rigger/internal/trigger"
)

const (
	DefaultBaseImage   = "python:{version}-slim"
	DefaultManifest    = "requirements.txt"
	DefaultWorkDir     = "/opt/project"
	DefaultParallelism = 2
	DefaultStorePath   = ".rigger/rigger.db"
	DefaultCacheDir    = ".rigger/cache"
	DefaultLogLevel    = "info"
)

// DefaultVersions are the interpreter versions verified when the matrix is
// not configured.
var DefaultVersions = []string{"3.9", "3.10"}

// DefaultSystemPackages returns the OS packages a scientific Python project
// typically needs to build its dependencies.
func DefaultSystemPackages() []envspec.SystemPackage {
	return []envspec.SystemPackage{
		{Name: "git"},
		{Name: "gcc"},
		{Name: "libgmp-dev", Optional: true},
	}
}

// DefaultTriggers returns the standard trigger set: static checks on pushes
// to the integration branch, a nightly static schedule, and a weekly full
// suite.
func DefaultTriggers() []trigger.Trigger {
	return []trigger.Trigger{
		{Kind: trigger.KindPush, Branches: []string{"develop"}},
		{Kind: trigger.KindSchedule, Cron: "0 2 * * *"},
		{Kind: trigger.KindSchedule, Cron: "0 3 * * 0"},
	}
}

// DefaultConfig returns a Config with all default values applied.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Source: SourceConfig{URL: "auto"},
		},
		Environment: EnvironmentConfig{
			BaseImage:      DefaultBaseImage,
			SystemPackages: DefaultSystemPackages(),
			Manifest:       DefaultManifest,
			WorkDir:        DefaultWorkDir,
		},
		Matrix: MatrixConfig{
			Versions:    append([]string(nil), DefaultVersions...),
			Parallelism: DefaultParallelism,
		},
		Triggers:  DefaultTriggers(),
		StorePath: DefaultStorePath,
		CacheDir:  DefaultCacheDir,
		LogLevel:  DefaultLogLevel,
	}
}
