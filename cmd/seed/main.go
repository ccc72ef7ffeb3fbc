package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/surreal-http/internal/config"
	"github.com/samvad-hq/surreal-http/internal/fixtures"
	"github.com/samvad-hq/surreal-http/internal/logger"
	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	file, err := fixtures.Load(cfg.FixturesFile)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	logger.InfoObj("fixtures loaded", "fixtures_meta", map[string]any{
		"path":   cfg.FixturesFile,
		"tables": len(file.Tables),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return surreal.Use(ctx, cfg.Surreal(), func(ctx context.Context, c *surreal.Client) error {
		sum, err := fixtures.Seed(ctx, c, file, log)
		logger.InfoObj("fixtures seeding finished", "fixtures_summary", sum)
		return err
	}, surreal.WithTimeout(cfg.RequestTimeout), surreal.WithLogger(log))
}
