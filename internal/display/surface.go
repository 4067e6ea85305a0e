// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

// Surface is the display driver boundary. Coordinates are pixels with the
// origin at the top-left; the cursor marks the top-left of the next text.
type Surface interface {
	Clear()
	SetCursor(x, y int)
	DrawText(s string)
	Flush() error
}

// Metrics describes the text layout of a surface using a fixed average
// character width.
type Metrics struct {
	Width      int // drawable width in pixels
	CharWidth  int // advance per character, spaces included
	LineHeight int
}

// DefaultMetrics matches a 128 px wide panel with the 6x8 GFX font.
var DefaultMetrics = Metrics{Width: 128, CharWidth: 6, LineHeight: 10}
