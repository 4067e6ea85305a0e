// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package trigger

import (
	"time"

	"github.com/relabs-tech/uv_monitor/internal/gpio"
	"github.com/relabs-tech/uv_monitor/internal/logger"
)

// DefaultHold is how long the sync line is held low.
const DefaultHold = time.Millisecond

// Trigger requests conversions by pulsing the sensor sync line.
type Trigger struct {
	line  gpio.OutputLine
	hold  time.Duration
	sleep func(time.Duration)
	log   *logger.Logger
}

func New(line gpio.OutputLine, hold time.Duration, l *logger.Logger) *Trigger {
	return &Trigger{
		line:  line,
		hold:  hold,
		sleep: time.Sleep,
		log:   l.WithTag("trigger"),
	}
}

// TriggerMeasurement drives the line low, holds, then returns it high,
// requesting exactly one conversion. Line errors are only logged; the
// caller cannot observe them.
func (t *Trigger) TriggerMeasurement() {
	if err := t.line.Set(false); err != nil {
		t.log.Warnf("sync line low: %v", err)
	}
	t.sleep(t.hold)
	if err := t.line.Set(true); err != nil {
		t.log.Warnf("sync line high: %v", err)
	}
}
