// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/relabs-tech/uv_monitor/internal/gpio"
	"github.com/relabs-tech/uv_monitor/internal/uv"
)

// MockSource simulates a sensor in sync mode: a low-then-high pulse on
// its sync line starts a conversion and the ready line fires once the
// conversion time has passed. Readings follow a compressed UV day.
type MockSource struct {
	mu       sync.Mutex
	start    time.Time
	now      func() time.Time
	period   time.Duration
	peak     float64
	convTime time.Duration
	failEach int
	reads    int
	lastSync bool

	ready *gpio.MemEdge
	sync  *gpio.MemOutput
	after func(time.Duration, func())
}

// NewMockSource creates a source whose UVA counts rise from zero to
// peak and back over each period. failEach > 0 makes every failEach-th
// read fail.
func NewMockSource(period time.Duration, peak float64, failEach int) *MockSource {
	m := &MockSource{
		start:    time.Now(),
		now:      time.Now,
		period:   period,
		peak:     peak,
		convTime: 64 * time.Millisecond,
		failEach: failEach,
		lastSync: true,
		ready:    &gpio.MemEdge{},
		after:    func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
	m.sync = gpio.NewMemOutput(true, m.onSync)
	return m
}

// ReadyLine is the simulated data-ready output of the sensor.
func (m *MockSource) ReadyLine() gpio.EdgeLine { return m.ready }

// SyncLine is the simulated SYN input of the sensor.
func (m *MockSource) SyncLine() gpio.OutputLine { return m.sync }

func (m *MockSource) Initialize() error         { return nil }
func (m *MockSource) ConfigureMode(Mode) error { return nil }

func (m *MockSource) onSync(high bool) {
	m.mu.Lock()
	rising := high && !m.lastSync
	m.lastSync = high
	m.mu.Unlock()

	if rising {
		m.after(m.convTime, m.ready.Fire)
	}
}

func (m *MockSource) ReadChannels() (uv.RawChannels, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.failEach > 0 && m.reads%m.failEach == 0 {
		return uv.RawChannels{}, fmt.Errorf("mock: simulated read failure (read %d)", m.reads)
	}

	phase := float64(m.now().Sub(m.start)%m.period) / float64(m.period)
	level := math.Sin(phase * math.Pi)
	uva := m.peak * level
	return uv.RawChannels{
		UVA: uint16(uva),
		UVB: uint16(uva * 0.1), // the UVB diode on the reference board reads low
		UVC: uint16(uva * 0.01),
	}, nil
}
