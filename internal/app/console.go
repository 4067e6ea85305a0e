// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"time"

	"github.com/relabs-tech/uv_monitor/internal/config"
	"github.com/relabs-tech/uv_monitor/internal/gpio"
	"github.com/relabs-tech/uv_monitor/internal/logger"
	"github.com/relabs-tech/uv_monitor/internal/sensors"
)

const (
	consoleDayPeriod = 2 * time.Minute
	consolePeakUVA   = 40000 // index 10 at noon
	consoleFailEach  = 25
)

// RunConsole runs the full loop against a simulated sensor, printing
// display frames and motor activity to the log. No hardware is needed.
func RunConsole(ctx context.Context, l *logger.Logger) error {
	cfg := config.Get()
	log := l.WithTag("console")

	src := sensors.NewMockSource(consoleDayPeriod, consolePeakUVA, consoleFailEach)
	motor := gpio.NewMemOutput(false, func(high bool) {
		if high {
			log.Infof("motor ON")
		} else {
			log.Infof("motor off")
		}
	})

	surface, metrics := newLogDisplay(cfg, l)
	hw := Hardware{
		Sensor:  src,
		Surface: surface,
		Metrics: metrics,
		Lines:   &gpio.Lines{Ready: src.ReadyLine(), Sync: src.SyncLine(), Motor: motor},
	}
	defer hw.Lines.Close()

	log.Infof("simulating a %v UV day, peak UVA %d", consoleDayPeriod, consolePeakUVA)
	return Run(ctx, cfg, hw, l)
}
