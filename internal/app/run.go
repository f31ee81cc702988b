package app

import (
	"context"
	"fmt"

	"github.com/vk/capscope/internal/ctxlog"
	"github.com/vk/capscope/internal/executor"
)

// Run executes the loaded scenario.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.logger.Info("Implementations registered:", "names", a.registry.Names())

	if len(a.model.Mounts) == 0 {
		a.logger.Warn("Scenario declares no mounts, nothing to execute.")
		return nil
	}

	a.logger.Info("🚀 Starting scenario execution...")
	exec := executor.New(a.registry, a.decoder, a.outW)
	if err := exec.Run(ctx, a.model); err != nil {
		return fmt.Errorf("scenario execution failed: %w", err)
	}
	a.logger.Info("🏁 Scenario finished.")

	a.logger.Debug("App.Run method finished.")
	return nil
}
