// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gpio

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePollTimeout bounds each WaitForEdge call so Close is noticed.
const edgePollTimeout = 100 * time.Millisecond

// PeriphOutput drives a periph output pin.
type PeriphOutput struct {
	pin gpio.PinOut
}

// NewPeriphOutput configures pin as an output at the given initial level.
func NewPeriphOutput(pin gpio.PinOut, initial bool) (*PeriphOutput, error) {
	if err := pin.Out(gpio.Level(initial)); err != nil {
		return nil, fmt.Errorf("%s: set output: %w", pin.Name(), err)
	}
	return &PeriphOutput{pin: pin}, nil
}

func (o *PeriphOutput) Set(high bool) error {
	return o.pin.Out(gpio.Level(high))
}

// PeriphEdge watches a periph input pin for rising edges.
type PeriphEdge struct {
	pin  gpio.PinIn
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewPeriphEdge configures pin as a pulled-down input with rising-edge detection.
func NewPeriphEdge(pin gpio.PinIn) (*PeriphEdge, error) {
	if err := pin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return nil, fmt.Errorf("%s: set input: %w", pin.Name(), err)
	}
	return &PeriphEdge{pin: pin, stop: make(chan struct{})}, nil
}

func (e *PeriphEdge) Watch(onRising func()) error {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for {
			select {
			case <-e.stop:
				return
			default:
			}
			if e.pin.WaitForEdge(edgePollTimeout) {
				onRising()
			}
		}
	}()
	return nil
}

func (e *PeriphEdge) Close() error {
	e.once.Do(func() { close(e.stop) })
	e.wg.Wait()
	return e.pin.Halt()
}

// OpenPeriph opens the lines through periph's pin registry.
func OpenPeriph(readyName, syncName, motorName string) (*Lines, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	readyPin := gpioreg.ByName(readyName)
	if readyPin == nil {
		return nil, fmt.Errorf("ready pin %q not found", readyName)
	}
	syncPin := gpioreg.ByName(syncName)
	if syncPin == nil {
		return nil, fmt.Errorf("sync pin %q not found", syncName)
	}
	motorPin := gpioreg.ByName(motorName)
	if motorPin == nil {
		return nil, fmt.Errorf("motor pin %q not found", motorName)
	}

	return newPeriphLines(readyPin, syncPin, motorPin)
}

func newPeriphLines(readyPin, syncPin, motorPin gpio.PinIO) (*Lines, error) {
	ready, err := NewPeriphEdge(readyPin)
	if err != nil {
		return nil, err
	}
	// SYN idles high; a conversion starts on the low-then-high pulse.
	syncOut, err := NewPeriphOutput(syncPin, true)
	if err != nil {
		ready.Close()
		return nil, err
	}
	motor, err := NewPeriphOutput(motorPin, false)
	if err != nil {
		ready.Close()
		syncPin.Halt()
		return nil, err
	}

	return &Lines{
		Ready:   ready,
		Sync:    syncOut,
		Motor:   motor,
		closers: []func() error{syncPin.Halt, motorPin.Halt},
	}, nil
}
