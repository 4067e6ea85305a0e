// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package notify holds the data-ready latch shared between the edge
// handler and the sampling loop.
package notify

import "go.uber.org/atomic"

// ReadyFlag is a single-slot mailbox: set overwrites, consume clears.
// Edges are not counted, so several edges before a consume collapse
// into one pending measurement.
type ReadyFlag struct {
	pending atomic.Bool
}

// SignalReady marks a measurement as available. Safe to call from the
// edge handler goroutine; it never blocks or allocates.
func (f *ReadyFlag) SignalReady() {
	f.pending.Store(true)
}

// ConsumeReady reports whether a measurement was pending and clears the
// flag in the same atomic step. Only the sampling loop calls it.
func (f *ReadyFlag) ConsumeReady() bool {
	return f.pending.Swap(false)
}
