// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

// Placement is one word and the position it is drawn at, relative to
// the top-left of the text block.
type Placement struct {
	X, Y int
	Word string
}

// Wrap lays text out word by word. Characters accumulate into a word
// until a space or the end of the string; if the word would cross
// m.Width it starts on the next line. Words are never split, so a word
// wider than the panel gets a line of its own and overflows it. The
// advance after each word includes one space.
func Wrap(text string, m Metrics) []Placement {
	var (
		out  []Placement
		x, y int
		word []rune
	)

	flush := func() {
		w := len(word) * m.CharWidth
		if len(word) > 0 {
			if x > 0 && x+w > m.Width {
				x = 0
				y += m.LineHeight
			}
			out = append(out, Placement{X: x, Y: y, Word: string(word)})
		}
		x += w + m.CharWidth
		word = word[:0]
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == ' ' {
			flush()
			continue
		}
		word = append(word, r)
		if i == len(runes)-1 {
			flush()
		}
	}
	return out
}

// Lines groups placements into the text of each line, for logging.
func Lines(ps []Placement) []string {
	var (
		lines []string
		lastY = -1
	)
	for _, p := range ps {
		if p.Y != lastY || len(lines) == 0 {
			lines = append(lines, p.Word)
			lastY = p.Y
			continue
		}
		lines[len(lines)-1] += " " + p.Word
	}
	return lines
}
