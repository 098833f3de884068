package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/selfreg/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	modules  []registry.Module
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It builds an isolated
// logger writing to outW. Without explicit modules the core modules are used.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules(outW)
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		modules: modules,
	}
}

// Registry returns the sealed registry built by the last Run, or nil. This
// is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
