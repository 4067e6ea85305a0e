// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package uv

// DefaultScale converts raw counts to an approximate physical unit.
const DefaultScale = 0.005

const (
	uvbWeight   = 4.0
	indexFactor = 0.01
)

// Calculator turns raw channels into a UV index.
type Calculator struct {
	Scale float64

	// UseUVBFallback replaces the scaled UVB value with the scaled UVA
	// value before combining. The UVB photodiode on the reference board
	// reads unreliably, so this is on by default.
	UseUVBFallback bool
}

// NewCalculator returns a calculator with the reference constants.
func NewCalculator() Calculator {
	return Calculator{Scale: DefaultScale, UseUVBFallback: true}
}

// Index computes (scaledUVB*4 + scaledUVA) * 0.01.
func (c Calculator) Index(raw RawChannels) float64 {
	scaledUVA := float64(raw.UVA) * c.Scale
	scaledUVB := float64(raw.UVB) * c.Scale
	if c.UseUVBFallback {
		scaledUVB = scaledUVA
	}
	return (scaledUVB*uvbWeight + scaledUVA) * indexFactor
}
