// Package main - Entry point for the tour-quote API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tour-quote/adapters/ratefile"
	"tour-quote/api"
	"tour-quote/core/quote"
	"tour-quote/internal/config"
	"tour-quote/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file")
	addr := flag.String("addr", "", "server address (defaults to the config)")
	ratesPath := flag.String("rates", "", "rate table file (defaults to the config)")
	flag.Parse()

	if err := run(*cfgPath, *addr, *ratesPath); err != nil {
		fmt.Fprintf(os.Stderr, "tour-quote server: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, addr, ratesPath string) error {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	if addr == "" {
		addr = cfg.Server.Addr
	}
	if ratesPath == "" {
		ratesPath = cfg.Rates.Path
	}
	repo, issues, err := ratefile.LoadRepository(ratesPath)
	if err != nil {
		return err
	}

	server := api.NewServer(version, repo, quote.SettingsFrom(cfg.Pricing))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("tour-quote server listening",
		zap.String("addr", addr),
		zap.String("version", version),
		zap.String("rates", ratesPath),
		zap.Int("rate_issues", len(issues)),
	)
	return server.ListenAndServe(ctx, addr)
}
