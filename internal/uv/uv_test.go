// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package uv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexReferenceReadings(t *testing.T) {
	calc := NewCalculator()

	// scaledUVA = 0.5 -> (0.5*4 + 0.5) * 0.01
	assert.InDelta(t, 0.025, calc.Index(RawChannels{UVA: 100, UVB: 9999}), 1e-12)

	// scaledUVA = 10 -> (10*4 + 10) * 0.01
	assert.InDelta(t, 0.5, calc.Index(RawChannels{UVA: 2000, UVB: 3}), 1e-12)

	// scaledUVA = 160 is the first reading that reaches the extreme band.
	assert.InDelta(t, 8.0, calc.Index(RawChannels{UVA: 32000}), 1e-9)
}

func TestUVBIgnoredWithFallback(t *testing.T) {
	calc := NewCalculator()
	for _, uva := range []uint16{0, 1, 100, 2000, 32000, 65535} {
		for _, uvb := range []uint16{0, 7, 1234, 65535} {
			assert.Equal(t, calc.Index(RawChannels{UVA: uva, UVB: uva}), calc.Index(RawChannels{UVA: uva, UVB: uvb}),
				"uva=%d uvb=%d", uva, uvb)
		}
	}
}

func TestUVBUsedWithoutFallback(t *testing.T) {
	calc := Calculator{Scale: DefaultScale, UseUVBFallback: false}

	// scaledUVA = 0.5, scaledUVB = 1 -> (1*4 + 0.5) * 0.01
	assert.InDelta(t, 0.045, calc.Index(RawChannels{UVA: 100, UVB: 200}), 1e-12)
	assert.InDelta(t, 0.0, calc.Index(RawChannels{}), 0)
}

func TestClassifyBoundaries(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		index float64
		want  Band
	}{
		{0, Low},
		{0.025, Low},
		{2.99, Low},
		{2.9999999, Low},
		{3.0, Moderate},
		{7.99, Moderate},
		{8.0, Extreme},
		{42, Extreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.index), "index %v", tt.index)
	}
}

func TestClassifyIsMonotonic(t *testing.T) {
	c := NewClassifier()
	prev := Low
	for i := 0; i <= 2000; i++ {
		b := c.Classify(float64(i) * 0.01)
		assert.GreaterOrEqual(t, int(b), int(prev), "index %v", float64(i)*0.01)
		prev = b
	}
	assert.Equal(t, Extreme, prev)
}

func TestAdvisories(t *testing.T) {
	assert.Equal(t, "Low: No protection needed", Low.Advisory())
	assert.Equal(t, "Moderate: Wear sunscreen and a hat", Moderate.Advisory())
	assert.Equal(t, "Extreme: Avoid sun exposure!", Extreme.Advisory())
	assert.Equal(t, "", Band(7).Advisory())
	assert.Equal(t, "extreme", Extreme.String())
}
