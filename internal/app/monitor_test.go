// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/uv_monitor/internal/config"
	"github.com/relabs-tech/uv_monitor/internal/display"
	"github.com/relabs-tech/uv_monitor/internal/gpio"
	"github.com/relabs-tech/uv_monitor/internal/logger"
	"github.com/relabs-tech/uv_monitor/internal/sensors"
	"github.com/relabs-tech/uv_monitor/internal/uv"
)

type fakeSensor struct {
	mu      sync.Mutex
	initErr error
	mode    sensors.Mode
	reads   int
	uva     uint16
}

func (f *fakeSensor) Initialize() error { return f.initErr }

func (f *fakeSensor) ConfigureMode(m sensors.Mode) error {
	f.mode = m
	return nil
}

func (f *fakeSensor) ReadChannels() (uv.RawChannels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return uv.RawChannels{UVA: f.uva}, nil
}

func (f *fakeSensor) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// syncBuffer guards a bytes.Buffer written from the loop goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	cfg, err := config.Parse(strings.NewReader("GPIO_BACKEND=mock\nUPDATE_INTERVAL_MS=1\nPOLL_INTERVAL_MS=1\n" + extra))
	require.NoError(t, err)
	return cfg
}

func TestRunStopsOnSensorInitFailure(t *testing.T) {
	var out syncBuffer
	l := logger.New(&out, logger.LogLevelDebug, true)
	syncOut := gpio.NewMemOutput(true, nil)
	motor := gpio.NewMemOutput(false, nil)
	surface := display.NewLogSurface(l, display.DefaultMetrics)

	hw := Hardware{
		Sensor:  &fakeSensor{initErr: errors.New("no ack at 0x74")},
		Surface: surface,
		Lines:   gpio.NewMemLines(&gpio.MemEdge{}, syncOut, motor),
	}

	err := Run(context.Background(), testConfig(t, ""), hw, l)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInit)
	assert.Contains(t, err.Error(), "no ack at 0x74")

	assert.Empty(t, syncOut.History(), "no trigger after a failed init")
	assert.Empty(t, motor.History())
	assert.Empty(t, surface.Frame())
}

func TestRunLoopEndToEnd(t *testing.T) {
	var out syncBuffer
	l := logger.New(&out, logger.LogLevelInfo, true)

	ready := &gpio.MemEdge{}
	syncOut := gpio.NewMemOutput(true, func(high bool) {
		if high {
			ready.Fire()
		}
	})
	motor := gpio.NewMemOutput(true, nil)
	sensor := &fakeSensor{uva: 32000}

	hw := Hardware{
		Sensor:  sensor,
		Surface: display.NewLogSurface(l, display.DefaultMetrics),
		Lines:   gpio.NewMemLines(ready, syncOut, motor),
	}
	cfg := testConfig(t, "ACTUATOR_PULSE_MS=1\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, hw, l) }()

	assert.Eventually(t, func() bool { return sensor.readCount() >= 3 }, 5*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop")
	}

	assert.Equal(t, sensors.ModeSyncStart, sensor.mode)
	history := motor.History()
	require.NotEmpty(t, history)
	assert.False(t, history[0], "actuator forced low before sampling")
	assert.False(t, motor.High())

	logged := out.String()
	assert.Contains(t, logged, "display: [UV Monitor | Waiting...]")
	assert.Contains(t, logged, "sampler: uv index 8.00 (extreme): Extreme: Avoid sun exposure!")
	assert.Contains(t, logged, "display: [UV Index: 8.00 | Extreme: Avoid sun | exposure!]")
}

func TestResolveMetrics(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, display.DefaultMetrics, resolveMetrics(cfg, display.Metrics{}))

	oled := display.Metrics{Width: 128, CharWidth: 7, LineHeight: 13}
	assert.Equal(t, oled, resolveMetrics(cfg, oled))

	cfg.DisplayCharWidth = 6
	cfg.DisplayLineHeight = 10
	assert.Equal(t, display.DefaultMetrics, resolveMetrics(cfg, oled))
}

func TestLoopbackLinesWaitForConversion(t *testing.T) {
	var scheduled []time.Duration
	var pending []func()
	lines := loopbackLines(conversionTime(6), func(d time.Duration, fn func()) {
		scheduled = append(scheduled, d)
		pending = append(pending, fn)
	})
	fired := 0
	require.NoError(t, lines.Ready.Watch(func() { fired++ }))

	require.NoError(t, lines.Sync.Set(false))
	require.NoError(t, lines.Sync.Set(true))
	assert.Equal(t, 0, fired, "ready must not rise while the conversion runs")
	assert.Equal(t, []time.Duration{74 * time.Millisecond}, scheduled)

	for _, fn := range pending {
		fn()
	}
	assert.Equal(t, 1, fired)
}

func TestConversionTime(t *testing.T) {
	assert.Equal(t, 11*time.Millisecond, conversionTime(0))
	assert.Equal(t, 74*time.Millisecond, conversionTime(6))
	assert.Equal(t, 1034*time.Millisecond, conversionTime(10))
}

func TestLogDisplayUsesConfiguredMetrics(t *testing.T) {
	var out syncBuffer
	l := logger.New(&out, logger.LogLevelInfo, true)
	cfg := testConfig(t, "DISPLAY_CHAR_WIDTH=7\nDISPLAY_LINE_HEIGHT=13\n")

	surface, m := newLogDisplay(cfg, l)
	assert.Equal(t, display.Metrics{Width: 128, CharWidth: 7, LineHeight: 13}, m)

	r := display.NewRenderer(surface, resolveMetrics(cfg, m))
	require.NoError(t, r.Render(8, "Extreme: Avoid sun exposure!"))
	assert.Equal(t, []string{"UV Index: 8.00", "Extreme: Avoid sun", "exposure!"}, surface.Frame())
}

type fakePort struct {
	bytes.Buffer
	closed bool
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func TestDiagnosticsMirrorToSerial(t *testing.T) {
	port := &fakePort{}
	var gotOpts serial.OpenOptions
	orig := openSerial
	openSerial = func(opts serial.OpenOptions) (io.ReadWriteCloser, error) {
		gotOpts = opts
		return port, nil
	}
	defer func() { openSerial = orig }()

	cfg := config.Default()
	cfg.SerialPort = "/dev/ttyUSB0"
	cfg.SerialBaud = 57600

	var stderr bytes.Buffer
	l, closer, err := NewDiagnostics(cfg, &stderr)
	require.NoError(t, err)

	l.WithTag("sampler").Warnf("read failed")
	assert.Equal(t, "/dev/ttyUSB0", gotOpts.PortName)
	assert.Equal(t, uint(57600), gotOpts.BaudRate)
	assert.Contains(t, stderr.String(), "sampler: WARN: read failed")
	assert.Contains(t, port.String(), "sampler: WARN: read failed")

	require.NoError(t, closer.Close())
	assert.True(t, port.closed)
}

func TestDiagnosticsWithoutSerial(t *testing.T) {
	orig := openSerial
	openSerial = func(serial.OpenOptions) (io.ReadWriteCloser, error) {
		t.Fatal("serial port opened without SERIAL_PORT")
		return nil, nil
	}
	defer func() { openSerial = orig }()

	var stderr bytes.Buffer
	l, closer, err := NewDiagnostics(config.Default(), &stderr)
	require.NoError(t, err)
	l.Errorf("boom")
	assert.Contains(t, stderr.String(), "ERROR: boom")
	assert.NoError(t, closer.Close())
}
