// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"encoding/binary"
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"

	"github.com/relabs-tech/uv_monitor/internal/uv"
)

// AS7331 register map. Configuration-state registers are 8 bit,
// measurement-state result registers are 16 bit little endian.
const (
	regOSR   = 0x00
	regAGEN  = 0x02
	regCREG1 = 0x06
	regCREG3 = 0x08

	regStatus = 0x00 // measurement state: OSR low byte, STATUS high byte
	regMRES1  = 0x02 // UVA, followed by MRES2 (UVB) and MRES3 (UVC)
)

const (
	osrConfig      = 0x02 // DOS = configuration state
	osrMeasure     = 0x03 // DOS = measurement state
	osrStart       = 0x80 // SS
	agenDeviceMask = 0xF0
	agenDeviceID   = 0x20

	statusNotReady  = 1 << 2
	statusOverflows = 0xE0 // OUTCONVOF | MRESOF | ADCOF
)

// DefaultAS7331Addr is the address with A0 and A1 tied low.
const DefaultAS7331Addr = 0x74

var (
	// ErrNotReady is returned when results are read before a conversion finished.
	ErrNotReady = errors.New("conversion not finished")
	// ErrOverflow is returned when the sensor flags a saturated result.
	ErrOverflow = errors.New("result overflow")
)

// Mode is the measurement mode written to CREG3.MMODE.
type Mode byte

const (
	ModeContinuous Mode = 0
	ModeCommand    Mode = 1
	ModeSyncStart  Mode = 2 // SYNS: conversion starts on the SYN pulse, READY rises when done
	ModeSyncEnd    Mode = 3
)

// AS7331Opts configures the sensor.
type AS7331Opts struct {
	Addr uint16
	Gain byte // CREG1 GAIN, 0 = 2048x ... 11 = 1x
	Time byte // CREG1 TIME, integration time 2^TIME ms
}

// AS7331 is a thin driver for the ams-OSRAM AS7331 UVA/UVB/UVC sensor.
type AS7331 struct {
	dev  *i2c.Dev
	opts AS7331Opts
}

func NewAS7331(bus i2c.Bus, opts AS7331Opts) *AS7331 {
	if opts.Addr == 0 {
		opts.Addr = DefaultAS7331Addr
	}
	return &AS7331{
		dev:  &i2c.Dev{Bus: bus, Addr: opts.Addr},
		opts: opts,
	}
}

// Initialize powers the device up in configuration state, checks the
// device ID and applies gain and integration time.
func (s *AS7331) Initialize() error {
	if err := s.writeReg(regOSR, osrConfig); err != nil {
		return fmt.Errorf("as7331: enter config state: %w", err)
	}

	agen, err := s.readReg(regAGEN)
	if err != nil {
		return fmt.Errorf("as7331: read AGEN: %w", err)
	}
	if agen&agenDeviceMask != agenDeviceID {
		return fmt.Errorf("as7331: unexpected device id 0x%02X", agen)
	}

	creg1 := s.opts.Gain<<4 | s.opts.Time&0x0F
	if err := s.writeReg(regCREG1, creg1); err != nil {
		return fmt.Errorf("as7331: write CREG1: %w", err)
	}
	return nil
}

// ConfigureMode selects the measurement mode and switches the device to
// measurement state, where it waits for the first SYN pulse.
func (s *AS7331) ConfigureMode(m Mode) error {
	if err := s.writeReg(regCREG3, byte(m)<<6); err != nil {
		return fmt.Errorf("as7331: write CREG3: %w", err)
	}
	if err := s.writeReg(regOSR, osrStart|osrMeasure); err != nil {
		return fmt.Errorf("as7331: enter measurement state: %w", err)
	}
	return nil
}

// ReadChannels reads the results of the last completed conversion.
func (s *AS7331) ReadChannels() (uv.RawChannels, error) {
	var st [2]byte
	if err := s.dev.Tx([]byte{regStatus}, st[:]); err != nil {
		return uv.RawChannels{}, fmt.Errorf("as7331: read status: %w", err)
	}
	status := st[1]
	if status&statusNotReady != 0 {
		return uv.RawChannels{}, fmt.Errorf("as7331: %w", ErrNotReady)
	}
	if status&statusOverflows != 0 {
		return uv.RawChannels{}, fmt.Errorf("as7331: status 0x%02X: %w", status, ErrOverflow)
	}

	var res [6]byte
	if err := s.dev.Tx([]byte{regMRES1}, res[:]); err != nil {
		return uv.RawChannels{}, fmt.Errorf("as7331: read results: %w", err)
	}
	return uv.RawChannels{
		UVA: binary.LittleEndian.Uint16(res[0:2]),
		UVB: binary.LittleEndian.Uint16(res[2:4]),
		UVC: binary.LittleEndian.Uint16(res[4:6]),
	}, nil
}

func (s *AS7331) writeReg(reg, val byte) error {
	return s.dev.Tx([]byte{reg, val}, nil)
}

func (s *AS7331) readReg(reg byte) (byte, error) {
	var b [1]byte
	if err := s.dev.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
