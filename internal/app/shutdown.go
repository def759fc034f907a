package app

import (
	"context"
)

// Shutdown stops the application in order:
//  1. Cancels the active loop and stops the timer engine
//  2. Shuts down the control server within server.shutdown_timeout_seconds
//
// Invocations already in flight are not awaited. Calling Shutdown on an
// app that is not started is a no-op.
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return nil
	}

	a.logger.Info("shutting down")

	a.scheduler.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout())
	defer cancel()

	err := a.server.Shutdown(ctx)
	if err != nil {
		a.logger.Error("failed to shut down control server", err)
	}

	a.started = false

	a.logger.Info("shutdown complete")
	return err
}
