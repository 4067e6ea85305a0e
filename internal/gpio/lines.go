// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gpio wraps the three bus lines the monitor uses: the sensor
// data-ready input, the sensor sync output and the motor output.
// Two hardware backends exist (periph and the gpiocdev character device)
// plus an in-memory one for the console build and tests.
package gpio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OutputLine is a digital output.
type OutputLine interface {
	Set(high bool) error
}

// EdgeLine delivers rising edges of an input line to a handler.
// The handler runs on a goroutine owned by the line and must not block.
type EdgeLine interface {
	Watch(onRising func()) error
	Close() error
}

// Lines is the set of lines the monitor needs.
type Lines struct {
	Ready EdgeLine
	Sync  OutputLine
	Motor OutputLine

	closers []func() error
}

// Close releases every line. The motor is driven low first.
func (l *Lines) Close() error {
	var errs []error
	if l.Motor != nil {
		if err := l.Motor.Set(false); err != nil {
			errs = append(errs, fmt.Errorf("motor off: %w", err))
		}
	}
	if l.Ready != nil {
		if err := l.Ready.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ready line: %w", err))
		}
	}
	for i := len(l.closers) - 1; i >= 0; i-- {
		if err := l.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LineOffset parses a pin name such as "GPIO17" or "17" into a line offset.
func LineOffset(name string) (int, error) {
	s := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "GPIO")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid line name %q", name)
	}
	return n, nil
}
