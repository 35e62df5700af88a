package graceful

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WaitForShutdown blocks until an interrupt arrives or ctx is cancelled,
// then drains the fiber app within the given timeout.
func WaitForShutdown(app *fiber.App, timeout time.Duration, ctx context.Context) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		zap.L().Info("shutdown signal received", zap.String("signal", s.String()))
	case <-ctx.Done():
		zap.L().Info("shutdown requested", zap.Error(ctx.Err()))
	}

	if err := app.ShutdownWithTimeout(timeout); err != nil {
		zap.L().Error("Failed to shut down server", zap.Error(err))
	}
}
