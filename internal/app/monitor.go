// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/uv_monitor/internal/actuator"
	"github.com/relabs-tech/uv_monitor/internal/config"
	"github.com/relabs-tech/uv_monitor/internal/display"
	"github.com/relabs-tech/uv_monitor/internal/gpio"
	"github.com/relabs-tech/uv_monitor/internal/logger"
	"github.com/relabs-tech/uv_monitor/internal/notify"
	"github.com/relabs-tech/uv_monitor/internal/sensors"
	"github.com/relabs-tech/uv_monitor/internal/trigger"
	"github.com/relabs-tech/uv_monitor/internal/uv"
)

// ErrInit marks a failure before the first cycle. The monitor never
// starts sampling after one.
var ErrInit = errors.New("initialization failed")

// Sensor is a UV sensor that can be put into sync-start mode.
type Sensor interface {
	uv.RawReader
	Initialize() error
	ConfigureMode(m sensors.Mode) error
}

// Hardware is everything the monitor drives.
type Hardware struct {
	Sensor  Sensor
	Surface display.Surface
	Metrics display.Metrics
	Lines   *gpio.Lines
}

// RunMonitor opens the real hardware described by the global config and
// runs the sampling loop until ctx is cancelled.
func RunMonitor(ctx context.Context, l *logger.Logger) error {
	cfg := config.Get()
	log := l.WithTag("monitor")

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("%w: periph host: %w", ErrInit, err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("%w: i2c bus %q: %w", ErrInit, cfg.I2CBus, err)
	}
	defer bus.Close()
	log.Infof("i2c bus opened: %s", bus)

	hw := Hardware{
		Sensor: sensors.NewAS7331(bus, sensors.AS7331Opts{
			Addr: cfg.SensorI2CAddr,
			Gain: cfg.SensorGain,
			Time: cfg.SensorTime,
		}),
	}

	switch cfg.DisplayBackend {
	case "ssd1306":
		oled, err := display.OpenOLED(bus)
		if err != nil {
			return fmt.Errorf("%w: display: %w", ErrInit, err)
		}
		hw.Surface, hw.Metrics = oled, oled.Metrics()
	default:
		hw.Surface, hw.Metrics = newLogDisplay(cfg, l)
	}

	lines, err := openLines(cfg)
	if err != nil {
		return fmt.Errorf("%w: gpio: %w", ErrInit, err)
	}
	defer func() {
		if err := lines.Close(); err != nil {
			log.Warnf("releasing lines: %v", err)
		}
	}()
	hw.Lines = lines

	log.Infof("sensor 0x%02X, display %s, gpio %s", cfg.SensorI2CAddr, cfg.DisplayBackend, cfg.GPIOBackend)
	return Run(ctx, cfg, hw, l)
}

func openLines(cfg *config.Config) (*gpio.Lines, error) {
	switch cfg.GPIOBackend {
	case "gpiocdev":
		return gpio.OpenCdev(cfg.GPIOChip, cfg.ReadyPin, cfg.SyncPin, cfg.MotorPin)
	case "mock":
		return loopbackLines(conversionTime(cfg.SensorTime), afterFunc), nil
	default:
		return gpio.OpenPeriph(cfg.ReadyPin, cfg.SyncPin, cfg.MotorPin)
	}
}

// conversionMargin covers clock tolerance on top of the integration time.
const conversionMargin = 10 * time.Millisecond

// conversionTime is how long one SYNS conversion takes for a CREG1 TIME
// field value: 2^TIME ms plus a margin.
func conversionTime(timeField byte) time.Duration {
	return time.Duration(1<<timeField)*time.Millisecond + conversionMargin
}

func afterFunc(d time.Duration, fn func()) { time.AfterFunc(d, fn) }

// loopbackLines reports data ready one conversion time after every
// rising sync edge, standing in for the READY wire.
func loopbackLines(conversion time.Duration, after func(time.Duration, func())) *gpio.Lines {
	ready := &gpio.MemEdge{}
	syncOut := gpio.NewMemOutput(true, func(high bool) {
		if high {
			after(conversion, ready.Fire)
		}
	})
	return gpio.NewMemLines(ready, syncOut, gpio.NewMemOutput(false, nil))
}

// newLogDisplay builds the headless surface with the same metrics the
// renderer will lay out with.
func newLogDisplay(cfg *config.Config, l *logger.Logger) (*display.LogSurface, display.Metrics) {
	m := resolveMetrics(cfg, display.DefaultMetrics)
	return display.NewLogSurface(l, m), m
}

// Run initializes the sensor and feedback devices, installs the edge
// handler and runs the loop. Any error before the first trigger is
// wrapped in ErrInit.
func Run(ctx context.Context, cfg *config.Config, hw Hardware, l *logger.Logger) error {
	log := l.WithTag("monitor")

	if err := hw.Sensor.Initialize(); err != nil {
		return fmt.Errorf("%w: sensor: %w", ErrInit, err)
	}
	if err := hw.Sensor.ConfigureMode(sensors.ModeSyncStart); err != nil {
		return fmt.Errorf("%w: sensor mode: %w", ErrInit, err)
	}

	metrics := resolveMetrics(cfg, hw.Metrics)
	renderer := display.NewRenderer(hw.Surface, metrics)
	if err := renderer.Splash("UV Monitor", "Waiting..."); err != nil {
		return fmt.Errorf("%w: display: %w", ErrInit, err)
	}

	motor := actuator.New(hw.Lines.Motor)
	if err := motor.Off(); err != nil {
		return fmt.Errorf("%w: actuator: %w", ErrInit, err)
	}

	flag := &notify.ReadyFlag{}
	if err := hw.Lines.Ready.Watch(flag.SignalReady); err != nil {
		return fmt.Errorf("%w: ready line: %w", ErrInit, err)
	}

	opts := SamplerOpts{
		Calculator: uv.Calculator{Scale: cfg.Scale, UseUVBFallback: cfg.UVBFallback},
		Classifier: uv.Classifier{ModerateThreshold: cfg.ModerateThreshold, ExtremeThreshold: cfg.ExtremeThreshold},
		Interval:   cfg.UpdateInterval(),
		Pulse:      cfg.ActuatorPulse(),
	}
	sampler := NewSampler(flag, trigger.New(hw.Lines.Sync, cfg.SyncPulse(), l), hw.Sensor, renderer, motor, opts, l)

	log.Infof("display %dpx wide, %dpx/char, %dpx/line", metrics.Width, metrics.CharWidth, metrics.LineHeight)
	sampler.Start()
	return sampler.Run(ctx, cfg.PollInterval())
}

// resolveMetrics lets the config override what the surface reports.
func resolveMetrics(cfg *config.Config, m display.Metrics) display.Metrics {
	if m == (display.Metrics{}) {
		m = display.DefaultMetrics
	}
	if cfg.DisplayWidth > 0 {
		m.Width = cfg.DisplayWidth
	}
	if cfg.DisplayCharWidth > 0 {
		m.CharWidth = cfg.DisplayCharWidth
	}
	if cfg.DisplayLineHeight > 0 {
		m.LineHeight = cfg.DisplayLineHeight
	}
	return m
}
