// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gpio

import "sync"

// MemOutput is an in-memory output line that records every level set.
type MemOutput struct {
	mu      sync.Mutex
	high    bool
	history []bool
	onSet   func(high bool)
	err     error
}

// NewMemOutput returns a line at the given level. onSet, if non-nil, is
// called after every successful Set.
func NewMemOutput(initial bool, onSet func(high bool)) *MemOutput {
	return &MemOutput{high: initial, onSet: onSet}
}

func (m *MemOutput) Set(high bool) error {
	m.mu.Lock()
	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return err
	}
	m.high = high
	m.history = append(m.history, high)
	onSet := m.onSet
	m.mu.Unlock()

	if onSet != nil {
		onSet(high)
	}
	return nil
}

// FailWith makes every later Set return err (nil clears it).
func (m *MemOutput) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemOutput) High() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.high
}

// History returns a copy of every level set so far.
func (m *MemOutput) History() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.history...)
}

// MemEdge is an in-memory edge line fired by calling Fire.
type MemEdge struct {
	mu       sync.Mutex
	onRising func()
}

func (e *MemEdge) Watch(onRising func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRising = onRising
	return nil
}

// Fire simulates a rising edge.
func (e *MemEdge) Fire() {
	e.mu.Lock()
	fn := e.onRising
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (e *MemEdge) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onRising = nil
	return nil
}

// NewMemLines returns in-memory lines: sync idles high, motor low.
func NewMemLines(ready *MemEdge, syncOut, motor *MemOutput) *Lines {
	return &Lines{Ready: ready, Sync: syncOut, Motor: motor}
}
