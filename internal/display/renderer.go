// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
)

// Renderer draws the UV feedback frame on a Surface.
type Renderer struct {
	surface Surface
	metrics Metrics
}

func NewRenderer(s Surface, m Metrics) *Renderer {
	return &Renderer{surface: s, metrics: m}
}

// Render clears the previous frame and draws the index with two decimals
// on the first line, then the advisory word-wrapped below a blank line.
func (r *Renderer) Render(index float64, advisory string) error {
	r.surface.Clear()
	r.surface.SetCursor(0, 0)
	r.surface.DrawText(fmt.Sprintf("UV Index: %.2f", index))

	top := 2 * r.metrics.LineHeight
	for _, p := range Wrap(advisory, r.metrics) {
		r.surface.SetCursor(p.X, top+p.Y)
		r.surface.DrawText(p.Word)
	}

	if err := r.surface.Flush(); err != nil {
		return fmt.Errorf("display flush: %w", err)
	}
	return nil
}

// Splash draws one line per entry, used until the first reading arrives.
func (r *Renderer) Splash(lines ...string) error {
	r.surface.Clear()
	for i, line := range lines {
		r.surface.SetCursor(0, i*r.metrics.LineHeight)
		r.surface.DrawText(line)
	}
	if err := r.surface.Flush(); err != nil {
		return fmt.Errorf("display flush: %w", err)
	}
	return nil
}
