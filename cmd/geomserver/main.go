// Package main serves the built-in geometry and material provider over
// websocket for viewers started with -provider.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eulertour/manim-opengl-tutorial/internal/config"
	"github.com/eulertour/manim-opengl-tutorial/internal/logger"
	"github.com/eulertour/manim-opengl-tutorial/internal/provider"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitFromConfig(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := provider.NewServer(provider.NewLocal(), logger.Named("geomserver"))
	if err := srv.ListenAndServe(ctx, cfg.Provider.Listen); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
