package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/janisto/cicd-demo-api/internal/config"
	applog "github.com/janisto/cicd-demo-api/internal/platform/logging"
	"github.com/janisto/cicd-demo-api/internal/server"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3".
// When empty, APP_VERSION (default 1.0.0) is reported.
var Version = ""

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

// run starts the server and blocks until ctx is cancelled or the listener fails.
func run(ctx context.Context) int {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogError(context.Background(), "invalid configuration", err)
		return 1
	}
	if Version != "" {
		cfg.Version = Version
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		applog.LogError(context.Background(), "invalid log level", err)
		return 1
	}

	srv, err := server.Start(cfg)
	if err != nil {
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", cfg.Addr()))
		return 1
	}

	code := 0
	select {
	case err := <-srv.Err():
		applog.LogError(context.Background(), "serve failed", err, zap.String("addr", srv.Addr().String()))
		code = 1
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
		code = 1
	}
	applog.LogInfo(context.Background(), "server exited")
	return code
}
