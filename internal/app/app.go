// Package app wires the engine, configuration, and modules into a runnable
// host for the command line entrypoint.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/htmlscene/internal/assets"
	"github.com/vk/htmlscene/internal/config"
	"github.com/vk/htmlscene/internal/ctxlog"
	"github.com/vk/htmlscene/internal/document"
	"github.com/vk/htmlscene/internal/engine"
	"github.com/vk/htmlscene/modules/counter"
	"github.com/vk/htmlscene/modules/interact"
	"github.com/vk/htmlscene/modules/uibase"
)

// Config holds everything an App needs to run.
type Config struct {
	ConfigPath string
	LogFormat  string
	LogLevel   string
}

// App encapsulates the host's dependencies and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	engine *engine.Engine
	file   *config.File
}

// coreModules is the default module set for the CLI host.
func coreModules() []engine.Module {
	return []engine.Module{uibase.Module{}, interact.Module{}, &counter.Module{}}
}

// NewApp constructs the host: logger, configuration, engine, and modules.
// Startup wiring errors are programmer or deployment errors and panic.
func NewApp(outW io.Writer, appConfig *Config, modules ...engine.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	file, err := config.Load(appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "scenes", len(file.Scenes))

	var resolver assets.Resolver = assets.Null{}
	if file.Settings.AssetsDir != "" {
		resolver = assets.Dir{Root: file.Settings.AssetsDir}
	}
	eng := engine.New(engine.Options{
		Assets:    resolver,
		Documents: document.NewCache(file.Settings.DocumentsDir),
	})

	if len(modules) == 0 {
		modules = coreModules()
	}
	eng.Use(modules...)
	logger.Debug("All modules registered.", "count", len(modules))

	return &App{
		outW:   outW,
		logger: logger,
		engine: eng,
		file:   file,
	}
}

// Engine returns the app's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// spawnScenes loads and spawns every configured scene.
func (a *App) spawnScenes(ctx context.Context) error {
	for _, sc := range a.file.Scenes {
		scene, err := a.engine.Documents().Load(ctx, sc.Document)
		if err != nil {
			return fmt.Errorf("scene %q: %w", sc.Name, err)
		}
		root, err := a.engine.Spawn(ctx, scene)
		if err != nil {
			return fmt.Errorf("scene %q: %w", sc.Name, err)
		}
		ctxlog.FromContext(ctx).Info("Scene spawned.", "name", sc.Name, "root", uint64(root))
	}
	return nil
}
