// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/uv_monitor/internal/config"
	"github.com/relabs-tech/uv_monitor/internal/sensors"
)

// RunRegisterDump reads the sensor configuration registers and prints
// them with their decoded bit fields. The sensor is left in
// configuration state, so run it while the monitor is stopped.
func RunRegisterDump(w io.Writer) error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("i2c bus %q: %w", cfg.I2CBus, err)
	}
	defer bus.Close()

	s := sensors.NewAS7331(bus, sensors.AS7331Opts{Addr: cfg.SensorI2CAddr})
	regs, err := s.DumpRegisters()
	if err != nil {
		return err
	}
	return writeRegisterTable(w, regs)
}

func writeRegisterTable(w io.Writer, regs []sensors.RegisterValue) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDR\tNAME\tVALUE\tDEFAULT\tACCESS\tDESCRIPTION")
	for _, r := range regs {
		mark := ""
		if r.Value != r.Default {
			mark = " *"
		}
		fmt.Fprintf(tw, "0x%02X\t%s\t0x%02X%s\t0x%02X\t%s\t%s\n",
			r.Address, r.Name, r.Value, mark, r.Default, r.Access, r.Description)
		for _, f := range r.BitFields {
			v, err := sensors.Field(r.Value, f.Bits)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", r.Name, f.Name, err)
			}
			fmt.Fprintf(tw, "\t  [%s] %s\t%d\t\t\t%s (%s)\n", f.Bits, f.Name, v, f.Description, f.Values)
		}
	}
	return tw.Flush()
}
