package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/hsbindgen/internal/config"
	"github.com/specialistvlad/hsbindgen/internal/hstype"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
	types  *hstype.Table
}

// NewApp is the constructor for the main application. cfg must come from
// NewConfig. Generated modules printed in dry-run mode go to outW, logs go to
// logW. Each App owns its
// logger and type table.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		types:  hstype.NewTable(),
	}
}

// Types returns the application's type table. This is primarily for testing.
func (a *App) Types() *hstype.Table {
	return a.types
}
