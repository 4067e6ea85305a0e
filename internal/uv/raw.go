// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package uv

// RawChannels is one completed conversion as reported by the sensor.
// Only valid for the cycle that read it.
type RawChannels struct {
	UVA uint16
	UVB uint16
	UVC uint16 // read when the sensor has it, not used by the index
}

// RawReader fetches the channels of the last completed conversion.
type RawReader interface {
	ReadChannels() (RawChannels, error)
}
