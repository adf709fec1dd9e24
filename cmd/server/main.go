package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"companygrow/internal/app"
	"companygrow/internal/config"
	"companygrow/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap, cleanup, err := app.Bootstrap(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to bootstrap app", "error", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			lg.Error("cleanup error", "error", err)
		}
	}()

	go bootstrap.Container.Hub.Run(ctx)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		lg.Fatal("invalid HTTP port", "error", err)
	}

	errCh := make(chan error, 2)
	go func() {
		lg.Info("http listening", "addr", addr)
		errCh <- bootstrap.Fiber.Listen(addr)
	}()
	if bootstrap.WS != nil {
		go func() {
			lg.Info("websocket listening", "addr", bootstrap.WS.Addr)
			if err := bootstrap.WS.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	select {
	case err := <-errCh:
		if err != nil {
			lg.Error("server error", "error", err)
		}
	case <-ctx.Done():
		lg.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error("http shutdown error", "error", err)
	}
	if bootstrap.WS != nil {
		if err := bootstrap.WS.Shutdown(shutdownCtx); err != nil {
			lg.Error("websocket shutdown error", "error", err)
		}
	}
}
