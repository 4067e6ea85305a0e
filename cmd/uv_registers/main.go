// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/uv_monitor/internal/app"
	"github.com/relabs-tech/uv_monitor/internal/config"
)

func main() {
	configPath := flag.String("config", "./uv_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting AS7331 register dump (stop uv_monitor first)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunRegisterDump(os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
