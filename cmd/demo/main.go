package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/surreal-http/internal/config"
	"github.com/samvad-hq/surreal-http/internal/logger"
	"github.com/samvad-hq/surreal-http/pkg/surreal"
)

const demoRecordID = "4"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return surreal.Use(ctx, cfg.Surreal(), func(ctx context.Context, c *surreal.Client) error {
		err := demo(ctx, c, cfg.DemoTable)
		if serr, ok := surreal.AsError(err); ok {
			fmt.Printf("Error: %s %s\n", serr.Status, errorJSON(serr))
			return nil
		}
		return err
	}, surreal.WithTimeout(cfg.RequestTimeout), surreal.WithLogger(log))
}

func demo(ctx context.Context, c *surreal.Client, table string) error {
	if _, err := c.CreateOne(ctx, table, demoRecordID, map[string]any{"name": "test"}); err != nil {
		return err
	}

	results, err := c.Execute(ctx, "SELECT * FROM "+table)
	if err != nil {
		return err
	}
	for _, res := range results {
		fmt.Println(res)
	}
	return nil
}

func errorJSON(e *surreal.Error) string {
	if e.Body == nil {
		return string(e.Raw)
	}
	raw, err := json.Marshal(e.Body)
	if err != nil {
		return string(e.Raw)
	}
	return string(raw)
}
