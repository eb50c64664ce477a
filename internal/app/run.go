package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/htmlscene/internal/ctxlog"
	"github.com/vk/htmlscene/internal/engine"
)

// Run spawns the configured scenes and drives the tick loop until the
// context is canceled or the configured tick count is reached.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.spawnScenes(ctx); err != nil {
		return fmt.Errorf("failed to spawn scenes: %w", err)
	}

	interval := time.Duration(a.file.Settings.TickRateMS) * time.Millisecond
	limit := a.file.Settings.Ticks
	a.logger.Info("Starting tick loop.", "interval", interval, "ticks", limit)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("Tick loop stopped.", "reason", ctx.Err(), "ticks", ticks)
			return nil
		case now := <-ticker.C:
			if err := a.engine.Tick(ctx, engine.TickInput{Now: now}); err != nil {
				return fmt.Errorf("tick %d failed: %w", ticks, err)
			}
			ticks++
			if limit > 0 && ticks >= limit {
				a.logger.Info("Tick loop finished.", "ticks", ticks)
				return nil
			}
		}
	}
}
