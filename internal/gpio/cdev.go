// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "uv-monitor"

// CdevOutput drives a character-device output line.
type CdevOutput struct {
	line *gpiocdev.Line
}

func (o *CdevOutput) Set(high bool) error {
	val := 0
	if high {
		val = 1
	}
	return o.line.SetValue(val)
}

// CdevEdge delivers kernel edge events for one input line. The line is
// requested when Watch is called, since the handler is part of the request.
type CdevEdge struct {
	chip   string
	offset int
	line   *gpiocdev.Line
}

func (e *CdevEdge) Watch(onRising func()) error {
	line, err := gpiocdev.RequestLine(e.chip, e.offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { onRising() }),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return fmt.Errorf("request ready line %s:%d: %w", e.chip, e.offset, err)
	}
	e.line = line
	return nil
}

func (e *CdevEdge) Close() error {
	if e.line == nil {
		return nil
	}
	return e.line.Close()
}

// OpenCdev requests the lines from a gpiochip character device.
func OpenCdev(chip, readyName, syncName, motorName string) (*Lines, error) {
	readyOffset, err := LineOffset(readyName)
	if err != nil {
		return nil, err
	}
	syncOffset, err := LineOffset(syncName)
	if err != nil {
		return nil, err
	}
	motorOffset, err := LineOffset(motorName)
	if err != nil {
		return nil, err
	}

	syncLine, err := gpiocdev.RequestLine(chip, syncOffset,
		gpiocdev.AsOutput(1),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("request sync line %s:%d: %w", chip, syncOffset, err)
	}
	motorLine, err := gpiocdev.RequestLine(chip, motorOffset,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer(consumer))
	if err != nil {
		syncLine.Close()
		return nil, fmt.Errorf("request motor line %s:%d: %w", chip, motorOffset, err)
	}

	return &Lines{
		Ready:   &CdevEdge{chip: chip, offset: readyOffset},
		Sync:    &CdevOutput{line: syncLine},
		Motor:   &CdevOutput{line: motorLine},
		closers: []func() error{syncLine.Close, motorLine.Close},
	}, nil
}
