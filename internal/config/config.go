package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/riggerci/rigger/internal/envspec"
	"github.com/riggerci/rigger/internal/git"
	"github.com/riggerci/rigger/internal/pipeline"
	"github.com/riggerci/rigger/internal/trigger"
)

// SourceConfig identifies the project to fetch and verify.
// A URL of "auto" is resolved from the local git remote.
type SourceConfig struct {
	// URL is the git clone URL
	URL string `yaml:"url"`

	// Ref is the branch, tag or commit to verify (empty = remote HEAD)
	Ref string `yaml:"ref,omitempty"`
}

// ProjectConfig names the target project.
type ProjectConfig struct {
	// Name identifies the project in logs and reports
	Name string `yaml:"name"`

	// Source locates the project repository
	Source SourceConfig `yaml:"source"`
}

// EnvironmentConfig describes the execution environment to provision.
type EnvironmentConfig struct {
	// BaseImage is the container image, with an optional {version}
	// placeholder resolved per matrix entry
	BaseImage string `yaml:"base_image"`

	// SystemPackages are OS packages installed before language packages
	SystemPackages []envspec.SystemPackage `yaml:"system_packages,omitempty"`

	// Manifest is the path of the language-package manifest
	Manifest string `yaml:"manifest"`

	// WorkDir is where the project source lands inside the environment
	WorkDir string `yaml:"workdir"`

	// Env contains environment variables set inside the environment
	Env map[string]string `yaml:"env,omitempty"`
}

// Spec converts the environment configuration into a build spec.
func (e EnvironmentConfig) Spec() envspec.Spec {
	return envspec.Spec{
		BaseImage:      e.BaseImage,
		SystemPackages: e.SystemPackages,
		ManifestPath:   e.Manifest,
		WorkDir:        e.WorkDir,
		Env:            e.Env,
	}
}

// MatrixConfig selects the interpreter versions to verify.
type MatrixConfig struct {
	// Versions are interpreter versions, one run each
	Versions []string `yaml:"versions"`

	// Parallelism bounds concurrent runs
	Parallelism int `yaml:"parallelism"`
}

// ChecksConfig configures both check families.
type ChecksConfig struct {
	// Dynamic configures the test-execution pass
	Dynamic pipeline.DynamicChecks `yaml:"dynamic"`

	// Static configures the source-text checkers
	Static pipeline.StaticChecks `yaml:"static"`
}

// Config holds all rigger configuration.
// It is immutable after creation via Load().
type Config struct {
	// Project names the target project and its source
	Project ProjectConfig `yaml:"project"`

	// Environment describes the execution environment
	Environment EnvironmentConfig `yaml:"environment"`

	// Matrix selects interpreter versions and parallelism
	Matrix MatrixConfig `yaml:"matrix"`

	// Checks configures the dynamic and static passes
	Checks ChecksConfig `yaml:"checks"`

	// Triggers declare how verification runs are initiated
	Triggers []trigger.Trigger `yaml:"triggers"`

	// StorePath is the run-history database location
	StorePath string `yaml:"store_path"`

	// CacheDir holds dependency-layer cache entries
	CacheDir string `yaml:"cache_dir"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// detectSourceURL resolves the project URL from the local git remote.
func detectSourceURL(root string) (string, error) {
	client := git.NewClient(root)
	ctx := context.Background()
	if !client.IsRepo(ctx) {
		return "", fmt.Errorf("%s is not a git repository", root)
	}
	return client.RemoteURL(ctx)
}

// Load loads configuration from the repository root.
// It applies defaults, then .rigger.yaml, then .rigger.env, then RIGGER_*
// environment variables, then resolves paths and auto-detects the source URL
// before validating.
func Load(root string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := filepath.Join(root, ".rigger.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	// Note: missing config file is not an error (use defaults)

	fileEnv, err := loadEnvFile(root)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg, func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		return fileEnv[key]
	})

	// Resolve relative paths from the repository root
	if !filepath.IsAbs(cfg.StorePath) {
		cfg.StorePath = filepath.Join(root, cfg.StorePath)
	}
	if !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(root, cfg.CacheDir)
	}
	if !filepath.IsAbs(cfg.Environment.Manifest) {
		cfg.Environment.Manifest = filepath.Join(root, cfg.Environment.Manifest)
	}

	if cfg.Project.Source.URL == "auto" || cfg.Project.Source.URL == "" {
		url, err := detectSourceURL(root)
		if err != nil {
			return nil, fmt.Errorf("auto-detect source url: %w", err)
		}
		cfg.Project.Source.URL = url
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
