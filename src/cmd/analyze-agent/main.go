// Package main provides the standalone analyze agent binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sysdoctor-agent/src/analyze"
	"sysdoctor-agent/src/broker"
	"sysdoctor-agent/src/config"
	"sysdoctor-agent/src/logger"
	"sysdoctor-agent/src/platform"
	"sysdoctor-agent/src/store"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.RedpandaBrokers) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: REDPANDA_BROKERS environment variable is required for analyze agent")
		fmt.Fprintln(os.Stderr, "Example: export REDPANDA_BROKERS=localhost:19092")
		os.Exit(1)
	}

	log := logger.NewConsoleLogger()

	log.Info("Starting sysdoctor Analyze Agent")
	log.Info("Redpanda brokers: %v", cfg.RedpandaBrokers)

	brk, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create broker: %v\n", err)
		os.Exit(1)
	}
	defer brk.Close()

	var st store.Store
	if cfg.PostgresDSN != "" {
		st, err = store.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to Postgres: %v\n", err)
			os.Exit(1)
		}
		log.Info("Using Postgres store")
	} else {
		st = store.NewMemoryStore()
		log.Info("DATABASE_URL not set, using in-memory store")
	}
	defer st.Close()

	info := platform.FromOverrides(cfg.VendorOverride, cfg.GenerationOverride)
	log.Info("Thermal profile: %s", info.Profile().Name)

	agent := analyze.NewAgent(brk, st, info.Profile(), platform.ProbeConnectivity{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received, stopping agent...")
		cancel()
	}()

	log.Info("Analyze agent started, processing log batches...")
	if err := agent.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Agent error: %v\n", err)
		os.Exit(1)
	}

	log.Info("Analyze agent stopped")
}
