// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration values.
type Config struct {
	// Sampling
	UpdateIntervalMS int // minimum time between processed cycles
	PollIntervalMS   int // idle wait between loop iterations

	// Index calculation
	Scale       float64
	UVBFallback bool // substitute scaled UVA for the UVB channel

	// Classification thresholds
	ModerateThreshold float64
	ExtremeThreshold  float64

	// Actuator and sync line timing
	ActuatorPulseMS int
	SyncPulseMS     int

	// Logging: 0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG
	LogLevel int

	// GPIO
	GPIOBackend string // "periph", "gpiocdev" or "mock"
	GPIOChip    string // gpiocdev chip name, e.g. "gpiochip0"
	ReadyPin    string // sensor READY line (rising edge = data ready)
	SyncPin     string // sensor SYN line
	MotorPin    string // vibration motor output

	// Sensor
	I2CBus        string
	SensorI2CAddr uint16
	SensorGain    byte // CREG1 GAIN field (0-11)
	SensorTime    byte // CREG1 TIME field (0-15)

	// Display
	DisplayBackend    string // "ssd1306" or "log"
	DisplayWidth      int    // pixels
	DisplayCharWidth  int    // pixels per character, 0 = use font metrics
	DisplayLineHeight int    // pixels per line, 0 = use font metrics

	// Serial diagnostics mirror (empty = disabled)
	SerialPort string
	SerialBaud int
}

// Package-level singleton, set once by InitGlobal and read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a configuration populated with the reference constants.
func Default() *Config {
	return &Config{
		UpdateIntervalMS:  1000,
		PollIntervalMS:    5,
		Scale:             0.005,
		UVBFallback:       true,
		ModerateThreshold: 3.0,
		ExtremeThreshold:  8.0,
		ActuatorPulseMS:   500,
		SyncPulseMS:       1,
		LogLevel:          3,
		GPIOBackend:       "periph",
		GPIOChip:          "gpiochip0",
		ReadyPin:          "GPIO17",
		SyncPin:           "GPIO27",
		MotorPin:          "GPIO22",
		I2CBus:            "",
		SensorI2CAddr:     0x74,
		SensorGain:        10,
		SensorTime:        6,
		DisplayBackend:    "ssd1306",
		DisplayWidth:      128,
		SerialBaud:        115200,
	}
}

// Load reads the configuration file and returns a Config struct.
// Keys missing from the file keep their Default() value.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines from r on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Sampling
	case "UPDATE_INTERVAL_MS":
		return setPositiveInt(&c.UpdateIntervalMS, key, value)
	case "POLL_INTERVAL_MS":
		return setPositiveInt(&c.PollIntervalMS, key, value)

	// Index calculation
	case "SCALE":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SCALE %q: %w", value, err)
		}
		if f <= 0 {
			return fmt.Errorf("SCALE must be positive, got %g", f)
		}
		c.Scale = f
	case "UVB_FALLBACK":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid UVB_FALLBACK %q: %w", value, err)
		}
		c.UVBFallback = b

	// Thresholds
	case "MODERATE_THRESHOLD":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MODERATE_THRESHOLD %q: %w", value, err)
		}
		c.ModerateThreshold = f
	case "EXTREME_THRESHOLD":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid EXTREME_THRESHOLD %q: %w", value, err)
		}
		c.ExtremeThreshold = f

	// Timing
	case "ACTUATOR_PULSE_MS":
		return setPositiveInt(&c.ActuatorPulseMS, key, value)
	case "SYNC_PULSE_MS":
		return setPositiveInt(&c.SyncPulseMS, key, value)

	// Logging
	case "LOG_LEVEL":
		lvl, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", value, err)
		}
		if lvl < 0 || lvl > 4 {
			return fmt.Errorf("LOG_LEVEL must be 0-4 (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG), got %d", lvl)
		}
		c.LogLevel = lvl

	// GPIO
	case "GPIO_BACKEND":
		switch value {
		case "periph", "gpiocdev", "mock":
			c.GPIOBackend = value
		default:
			return fmt.Errorf("GPIO_BACKEND must be periph, gpiocdev or mock, got %q", value)
		}
	case "GPIO_CHIP":
		c.GPIOChip = value
	case "READY_PIN":
		c.ReadyPin = value
	case "SYNC_PIN":
		c.SyncPin = value
	case "MOTOR_PIN":
		c.MotorPin = value

	// Sensor
	case "I2C_BUS":
		c.I2CBus = value
	case "SENSOR_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_I2C_ADDR %q: %w", value, err)
		}
		c.SensorI2CAddr = uint16(addr)
	case "SENSOR_GAIN":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_GAIN %q: %w", value, err)
		}
		if val < 0 || val > 11 {
			return fmt.Errorf("SENSOR_GAIN must be 0-11 (0=2048x ... 11=1x), got %d", val)
		}
		c.SensorGain = byte(val)
	case "SENSOR_TIME":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_TIME %q: %w", value, err)
		}
		if val < 0 || val > 15 {
			return fmt.Errorf("SENSOR_TIME must be 0-15, got %d", val)
		}
		c.SensorTime = byte(val)

	// Display
	case "DISPLAY_BACKEND":
		switch value {
		case "ssd1306", "log":
			c.DisplayBackend = value
		default:
			return fmt.Errorf("DISPLAY_BACKEND must be ssd1306 or log, got %q", value)
		}
	case "DISPLAY_WIDTH":
		return setPositiveInt(&c.DisplayWidth, key, value)
	case "DISPLAY_CHAR_WIDTH":
		return setPositiveInt(&c.DisplayCharWidth, key, value)
	case "DISPLAY_LINE_HEIGHT":
		return setPositiveInt(&c.DisplayLineHeight, key, value)

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD":
		return setPositiveInt(&c.SerialBaud, key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func setPositiveInt(dst *int, key, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %d", key, v)
	}
	*dst = v
	return nil
}

// validate checks cross-field rules.
func (c *Config) validate() error {
	if c.ModerateThreshold < 0 {
		return fmt.Errorf("MODERATE_THRESHOLD must not be negative, got %g", c.ModerateThreshold)
	}
	if c.ExtremeThreshold <= c.ModerateThreshold {
		return fmt.Errorf("EXTREME_THRESHOLD (%g) must be greater than MODERATE_THRESHOLD (%g)",
			c.ExtremeThreshold, c.ModerateThreshold)
	}
	if c.GPIOBackend != "mock" {
		if c.ReadyPin == "" || c.SyncPin == "" || c.MotorPin == "" {
			return fmt.Errorf("READY_PIN, SYNC_PIN and MOTOR_PIN are required for GPIO_BACKEND=%s", c.GPIOBackend)
		}
	}
	if c.GPIOBackend == "gpiocdev" && c.GPIOChip == "" {
		return fmt.Errorf("GPIO_CHIP is required for GPIO_BACKEND=gpiocdev")
	}
	return nil
}

// UpdateInterval returns the minimum time between processed cycles.
func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalMS) * time.Millisecond
}

// PollInterval returns the idle wait between loop iterations.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// ActuatorPulse returns the motor pulse duration.
func (c *Config) ActuatorPulse() time.Duration {
	return time.Duration(c.ActuatorPulseMS) * time.Millisecond
}

// SyncPulse returns how long the sync line is held low.
func (c *Config) SyncPulse() time.Duration {
	return time.Duration(c.SyncPulseMS) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
