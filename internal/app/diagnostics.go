// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"io"
	"os"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/uv_monitor/internal/config"
	"github.com/relabs-tech/uv_monitor/internal/logger"
)

var openSerial = func(opts serial.OpenOptions) (io.ReadWriteCloser, error) {
	return serial.Open(opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewDiagnostics builds the process logger. Output goes to stderr and,
// when SERIAL_PORT is set, is mirrored to that port. The returned closer
// releases the port.
func NewDiagnostics(cfg *config.Config, stderr io.Writer) (*logger.Logger, io.Closer, error) {
	if stderr == nil {
		stderr = os.Stderr
	}
	_, underSystemd := os.LookupEnv("INVOCATION_ID")
	level := logger.LogLevel(cfg.LogLevel)

	if cfg.SerialPort == "" {
		return logger.New(stderr, level, underSystemd), nopCloser{}, nil
	}

	opts := serial.OpenOptions{
		PortName:              cfg.SerialPort,
		BaudRate:              uint(cfg.SerialBaud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}
	port, err := openSerial(opts)
	if err != nil {
		return nil, nil, err
	}

	l := logger.New(io.MultiWriter(stderr, port), level, underSystemd)
	l.WithTag("diag").Infof("mirroring diagnostics to %s at %d baud", opts.PortName, opts.BaudRate)
	return l, port, nil
}
