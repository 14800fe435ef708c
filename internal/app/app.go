package app

import (
	"io"
	"log/slog"

	"github.com/vk/buildgrid/internal/config"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	// outW receives query output when no output file is configured; logW
	// receives logs. Keeping them separate means console query results
	// stay machine-consumable even at debug log levels.
	outW   io.Writer
	logW   io.Writer
	logger *slog.Logger
	config *Config
	loader config.Loader
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger; configuration loading happens in Run.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logW:   logW,
		logger: logger,
		config: appConfig,
		loader: loader,
	}
}
