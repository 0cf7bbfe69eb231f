package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hpungsan/atext2csv/internal/config"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// loadConfig reads ~/.atext2csv/config.json. A missing home directory or
// config file yields defaults.
func loadConfig() (*config.Config, error) {
	baseDir, err := config.DefaultBaseDir()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.Load(baseDir)
}

// setupLogging installs a text slog handler on stderr.
func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newCLIApp(cfg, os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
