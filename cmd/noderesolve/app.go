// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/noderesolve/noderesolve/internal/config"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and output streams. Every command handler
	// receives an App and writes through it.
	App struct {
		Config    ConfigProvider
		configDir string
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer

		// ConfigDir replaces the platform config directory when set.
		ConfigDir string
	}
)

// NewApp builds an App, filling unset dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		configDir: deps.ConfigDir,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadOptions maps --config and the injected config directory to LoadOptions.
func (a *App) loadOptions(flags *rootFlagValues) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: flags.configPath, ConfigDirPath: a.configDir}
}

// loadConfig loads configuration honoring --config.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, error) {
	return a.Config.Load(ctx, a.loadOptions(flags))
}
