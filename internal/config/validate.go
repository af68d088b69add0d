package config

import (
	"errors"
	"fmt"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.Project.Source.URL == "" || cfg.Project.Source.URL == "auto" {
		errs = append(errs, &ValidationError{
			Field:   "project.source.url",
			Value:   cfg.Project.Source.URL,
			Message: "must be set or auto-detectable",
		})
	}

	if cfg.Environment.BaseImage == "" {
		errs = append(errs, &ValidationError{
			Field:   "environment.base_image",
			Value:   cfg.Environment.BaseImage,
			Message: "must not be empty",
		})
	}

	if cfg.Environment.Manifest == "" {
		errs = append(errs, &ValidationError{
			Field:   "environment.manifest",
			Value:   cfg.Environment.Manifest,
			Message: "must not be empty",
		})
	}

	if cfg.Environment.WorkDir == "" {
		errs = append(errs, &ValidationError{
			Field:   "environment.workdir",
			Value:   cfg.Environment.WorkDir,
			Message: "must not be empty",
		})
	}

	for i, pkg := range cfg.Environment.SystemPackages {
		if pkg.Name == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("environment.system_packages[%d].name", i),
				Value:   pkg.Name,
				Message: "must not be empty",
			})
		}
	}

	if len(cfg.Matrix.Versions) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "matrix.versions",
			Value:   cfg.Matrix.Versions,
			Message: "must list at least one interpreter version",
		})
	}
	for i, version := range cfg.Matrix.Versions {
		if version == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("matrix.versions[%d]", i),
				Value:   version,
				Message: "must not be empty",
			})
		}
	}

	if cfg.Matrix.Parallelism < 1 {
		errs = append(errs, &ValidationError{
			Field:   "matrix.parallelism",
			Value:   cfg.Matrix.Parallelism,
			Message: "must be at least 1",
		})
	}

	for i, trig := range cfg.Triggers {
		if err := trig.Validate(); err != nil {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("triggers[%d]", i),
				Value:   trig.Kind,
				Message: err.Error(),
			})
		}
	}

	if cfg.StorePath == "" {
		errs = append(errs, &ValidationError{
			Field:   "store_path",
			Value:   cfg.StorePath,
			Message: "must not be empty",
		})
	}

	if cfg.CacheDir == "" {
		errs = append(errs, &ValidationError{
			Field:   "cache_dir",
			Value:   cfg.CacheDir,
			Message: "must not be empty",
		})
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
