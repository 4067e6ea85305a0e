// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/uv_monitor/internal/app"
	"github.com/relabs-tech/uv_monitor/internal/config"
)

func main() {
	configPath := flag.String("config", "./uv_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting uv-monitor (AS7331 → display + motor)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	diag, port, err := app.NewDiagnostics(config.Get(), nil)
	if err != nil {
		log.Fatalf("failed to open diagnostics port: %v", err)
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunMonitor(ctx, diag); err != nil {
		stop()
		port.Close()
		log.Fatalf("fatal: %v", err)
	}
	diag.Infof("stopped")
}
