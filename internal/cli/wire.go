package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/riggerci/rigger/internal/builder"
	"github.com/riggerci/rigger/internal/config"
	"github.com/riggerci/rigger/internal/container"
	"github.com/riggerci/rigger/internal/events"
	"github.com/riggerci/rigger/internal/matrix"
	"github.com/riggerci/rigger/internal/store"
)

// System holds all wired components
type System struct {
	Config  *config.Config
	Log     *logrus.Entry
	Bus     *events.Bus
	Runtime container.Manager
	Builder *builder.Builder
	Store   *store.Store
	Matrix  *matrix.Runner
}

// Wire assembles all components from configuration
func Wire(cfg *config.Config) (*System, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()

	bin, err := container.DetectRuntime()
	if err != nil {
		return nil, err
	}
	runtime := container.NewCLIManager(bin)

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	cache := builder.NewStore(fs, cfg.CacheDir)

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	envBuilder := builder.New(runtime, cache, fs, bus, log)

	return &System{
		Config:  cfg,
		Log:     log,
		Bus:     bus,
		Runtime: runtime,
		Builder: envBuilder,
		Store:   db,
		Matrix:  matrix.NewRunner(envBuilder, runtime, db, bus, log),
	}, nil
}

// Close shuts down all components
func (s *System) Close() error {
	if s.Bus != nil {
		s.Bus.Close()
	}
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

// newLogger builds the logrus entry shared by all components.
func newLogger(level string) (*logrus.Entry, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(parsed)
	return logrus.NewEntry(log), nil
}
