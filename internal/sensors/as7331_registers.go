// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import "fmt"

// BitField describes one field inside a register.
type BitField struct {
	Bits        string // "7:4" or "6"
	Name        string
	Description string
	Values      string
}

// RegisterInfo describes one configuration-state register.
type RegisterInfo struct {
	Address     byte
	Name        string
	Description string
	Access      string // "R", "W", "RW"
	Default     byte
	BitFields   []BitField
}

// RegisterValue is a register read back from the device.
type RegisterValue struct {
	RegisterInfo
	Value byte
}

// AS7331RegisterMap returns the registers readable in configuration state.
// In measurement state the same addresses map to the result registers.
func AS7331RegisterMap() []RegisterInfo {
	return []RegisterInfo{
		{Address: 0x00, Name: "OSR", Description: "Operational State Register", Access: "RW", Default: 0x42,
			BitFields: []BitField{
				{Bits: "7", Name: "SS", Description: "Start measurement", Values: "0=Stop, 1=Start"},
				{Bits: "6", Name: "PD", Description: "Power down", Values: "0=On, 1=Power down"},
				{Bits: "3", Name: "SW_RES", Description: "Software reset", Values: "1=Reset"},
				{Bits: "2:0", Name: "DOS", Description: "Device operating state", Values: "2=Configuration, 3=Measurement"},
			}},
		{Address: 0x02, Name: "AGEN", Description: "API generation", Access: "R", Default: 0x21,
			BitFields: []BitField{
				{Bits: "7:4", Name: "DEVID", Description: "Device ID", Values: "2=AS7331"},
				{Bits: "3:0", Name: "MUT", Description: "Mutation number", Values: "0-15"},
			}},
		{Address: 0x06, Name: "CREG1", Description: "Configuration 1 (gain, integration time)", Access: "RW", Default: 0xA6,
			BitFields: []BitField{
				{Bits: "7:4", Name: "GAIN", Description: "Sensor gain", Values: "0=2048x ... 11=1x"},
				{Bits: "3:0", Name: "TIME", Description: "Integration time", Values: "2^TIME ms, 0=1ms ... 14=16384ms"},
			}},
		{Address: 0x07, Name: "CREG2", Description: "Configuration 2 (divider, temperature)", Access: "RW", Default: 0x40,
			BitFields: []BitField{
				{Bits: "6", Name: "EN_TM", Description: "Temperature measurement in SYND", Values: "0=Off, 1=On"},
				{Bits: "3", Name: "EN_DIV", Description: "Output divider", Values: "0=Off, 1=On"},
				{Bits: "2:0", Name: "DIV", Description: "Divider value", Values: "2^(1+DIV)"},
			}},
		{Address: 0x08, Name: "CREG3", Description: "Configuration 3 (mode, clock)", Access: "RW", Default: 0x50,
			BitFields: []BitField{
				{Bits: "7:6", Name: "MMODE", Description: "Measurement mode", Values: "0=CONT, 1=CMD, 2=SYNS, 3=SYND"},
				{Bits: "4", Name: "SB", Description: "Standby", Values: "0=Off, 1=On"},
				{Bits: "3", Name: "RDYOD", Description: "READY pin output", Values: "0=Push-pull, 1=Open drain"},
				{Bits: "1:0", Name: "CCLK", Description: "Internal clock", Values: "0=1.024MHz ... 3=8.192MHz"},
			}},
		{Address: 0x09, Name: "BREAK", Description: "Pause between conversions (x8us)", Access: "RW", Default: 0x19,
			BitFields: []BitField{
				{Bits: "7:0", Name: "BREAK", Description: "Break time", Values: "0-255"},
			}},
		{Address: 0x0A, Name: "EDGES", Description: "SYN edges per conversion in SYND", Access: "RW", Default: 0x01,
			BitFields: []BitField{
				{Bits: "7:0", Name: "EDGES", Description: "Edge count", Values: "1-255"},
			}},
		{Address: 0x0B, Name: "OPTREG", Description: "Option register", Access: "RW", Default: 0x73,
			BitFields: []BitField{
				{Bits: "0", Name: "INIT_IDX", Description: "I2C repeated start addressing", Values: "0=Off, 1=On"},
			}},
	}
}

// DumpRegisters puts the device into configuration state and reads back
// every register of AS7331RegisterMap. The device is left in
// configuration state.
func (s *AS7331) DumpRegisters() ([]RegisterValue, error) {
	if err := s.writeReg(regOSR, osrConfig); err != nil {
		return nil, fmt.Errorf("as7331: enter config state: %w", err)
	}

	regs := AS7331RegisterMap()
	out := make([]RegisterValue, 0, len(regs))
	for _, r := range regs {
		v, err := s.readReg(r.Address)
		if err != nil {
			return out, fmt.Errorf("as7331: read %s (0x%02X): %w", r.Name, r.Address, err)
		}
		out = append(out, RegisterValue{RegisterInfo: r, Value: v})
	}
	return out, nil
}

// Field extracts a bit range such as "7:4" or "6" from v.
func Field(v byte, bits string) (byte, error) {
	var hi, lo uint
	if n, _ := fmt.Sscanf(bits, "%d:%d", &hi, &lo); n == 2 {
		if hi > 7 || lo > hi {
			return 0, fmt.Errorf("invalid bit range %q", bits)
		}
	} else if n, _ := fmt.Sscanf(bits, "%d", &hi); n == 1 && hi <= 7 {
		lo = hi
	} else {
		return 0, fmt.Errorf("invalid bit range %q", bits)
	}
	width := hi - lo + 1
	return (v >> lo) & byte(uint(1)<<width-1), nil
}
