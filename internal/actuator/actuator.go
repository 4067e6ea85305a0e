// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package actuator

import (
	"fmt"
	"time"

	"github.com/relabs-tech/uv_monitor/internal/gpio"
)

// DefaultPulse is the reference motor pulse length.
const DefaultPulse = 500 * time.Millisecond

// Controller drives the vibration motor.
type Controller struct {
	line  gpio.OutputLine
	sleep func(time.Duration)
}

func New(line gpio.OutputLine) *Controller {
	return &Controller{line: line, sleep: time.Sleep}
}

// Pulse drives the motor high for d and then low. It blocks for d.
func (c *Controller) Pulse(d time.Duration) error {
	if err := c.line.Set(true); err != nil {
		return fmt.Errorf("motor on: %w", err)
	}
	c.sleep(d)
	if err := c.line.Set(false); err != nil {
		return fmt.Errorf("motor off: %w", err)
	}
	return nil
}

// Off forces the motor low.
func (c *Controller) Off() error {
	if err := c.line.Set(false); err != nil {
		return fmt.Errorf("motor off: %w", err)
	}
	return nil
}
