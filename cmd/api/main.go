package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"market-directory/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runtime, err := app.Build(ctx, app.Options{LoadDotEnv: true, MigrateByDefault: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap failed: %v\n", err)
		os.Exit(1)
	}
	logger := runtime.Logger

	server := app.NewServer(":"+runtime.Config.Port, runtime.Handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(ctx, "server_failed", "error", err.Error())
			_ = runtime.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), runtime.Config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "server_shutdown_failed", "error", err.Error())
	}
	if err := runtime.Close(); err != nil {
		logger.Error(shutdownCtx, "close_failed", "error", err.Error())
	}
}
