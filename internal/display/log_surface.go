// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"sort"
	"strings"

	"github.com/relabs-tech/uv_monitor/internal/logger"
)

// LogSurface prints each flushed frame to the diagnostic log, one text
// row per line. Used when no panel is attached.
type LogSurface struct {
	log     *logger.Logger
	metrics Metrics
	rows    map[int][]rune
	x, y    int
	last    string
}

func NewLogSurface(l *logger.Logger, m Metrics) *LogSurface {
	return &LogSurface{
		log:     l.WithTag("display"),
		metrics: m,
		rows:    make(map[int][]rune),
	}
}

func (s *LogSurface) Clear() {
	s.rows = make(map[int][]rune)
	s.x, s.y = 0, 0
}

func (s *LogSurface) SetCursor(x, y int) {
	s.x, s.y = x, y
}

func (s *LogSurface) DrawText(text string) {
	col := s.x / s.metrics.CharWidth
	row := s.rows[s.y]
	for len(row) < col {
		row = append(row, ' ')
	}
	for i, r := range []rune(text) {
		if col+i < len(row) {
			row[col+i] = r
		} else {
			row = append(row, r)
		}
	}
	s.rows[s.y] = row
	s.x += len([]rune(text)) * s.metrics.CharWidth
}

// Frame returns the current frame as text rows, top to bottom.
func (s *LogSurface) Frame() []string {
	ys := make([]int, 0, len(s.rows))
	for y := range s.rows {
		ys = append(ys, y)
	}
	sort.Ints(ys)

	out := make([]string, 0, len(ys))
	for _, y := range ys {
		out = append(out, strings.TrimRight(string(s.rows[y]), " "))
	}
	return out
}

// Flush logs the frame, skipping repeats of the previous one.
func (s *LogSurface) Flush() error {
	frame := strings.Join(s.Frame(), " | ")
	if frame == s.last {
		return nil
	}
	s.last = frame
	s.log.Infof("[%s]", frame)
	return nil
}
