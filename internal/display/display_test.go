// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/uv_monitor/internal/logger"
)

func TestWrapBreaksBeforeWordThatCrossesWidth(t *testing.T) {
	got := Wrap("Low: No protection needed", DefaultMetrics)

	assert.Equal(t, []Placement{
		{X: 0, Y: 0, Word: "Low:"},
		{X: 30, Y: 0, Word: "No"},
		{X: 48, Y: 0, Word: "protection"},
		{X: 0, Y: 10, Word: "needed"},
	}, got)
	assert.Equal(t, []string{"Low: No protection", "needed"}, Lines(got))
}

func TestWrapNeverSplitsWords(t *testing.T) {
	m := Metrics{Width: 60, CharWidth: 6, LineHeight: 10}

	// "aaaa" ends at 24, the space takes it to 30, "bbbbb" would end at 60.
	assert.Equal(t, []string{"aaaa bbbbb", "cc"}, Lines(Wrap("aaaa bbbbb cc", m)))
	// One more character and the second word moves down whole.
	assert.Equal(t, []string{"aaaa", "bbbbbb cc"}, Lines(Wrap("aaaa bbbbbb cc", m)))
}

func TestWrapOverlongWordKeepsItsOwnLine(t *testing.T) {
	m := Metrics{Width: 30, CharWidth: 6, LineHeight: 10}
	got := Wrap("abcdefghij ok", m)

	assert.Equal(t, []Placement{
		{X: 0, Y: 0, Word: "abcdefghij"},
		{X: 0, Y: 10, Word: "ok"},
	}, got)
}

func TestWrapSpacingAndEmptyInput(t *testing.T) {
	assert.Empty(t, Wrap("", DefaultMetrics))
	assert.Empty(t, Wrap("   ", DefaultMetrics))

	got := Wrap("a  b ", DefaultMetrics)
	assert.Equal(t, []Placement{{X: 0, Y: 0, Word: "a"}, {X: 18, Y: 0, Word: "b"}}, got)
}

type op struct {
	kind string
	x, y int
	text string
}

type fakeSurface struct {
	ops      []op
	flushErr error
}

func (f *fakeSurface) Clear()             { f.ops = append(f.ops, op{kind: "clear"}) }
func (f *fakeSurface) SetCursor(x, y int) { f.ops = append(f.ops, op{kind: "cursor", x: x, y: y}) }
func (f *fakeSurface) DrawText(s string)  { f.ops = append(f.ops, op{kind: "text", text: s}) }
func (f *fakeSurface) Flush() error {
	f.ops = append(f.ops, op{kind: "flush"})
	return f.flushErr
}

func TestRenderFrame(t *testing.T) {
	s := &fakeSurface{}
	r := NewRenderer(s, DefaultMetrics)

	require.NoError(t, r.Render(0.025, "Low: No protection needed"))

	assert.Equal(t, []op{
		{kind: "clear"},
		{kind: "cursor", x: 0, y: 0},
		{kind: "text", text: "UV Index: 0.03"},
		{kind: "cursor", x: 0, y: 20},
		{kind: "text", text: "Low:"},
		{kind: "cursor", x: 30, y: 20},
		{kind: "text", text: "No"},
		{kind: "cursor", x: 48, y: 20},
		{kind: "text", text: "protection"},
		{kind: "cursor", x: 0, y: 30},
		{kind: "text", text: "needed"},
		{kind: "flush"},
	}, s.ops)
}

func TestRenderReportsFlushError(t *testing.T) {
	s := &fakeSurface{flushErr: errors.New("i2c nack")}
	err := NewRenderer(s, DefaultMetrics).Render(1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i2c nack")
}

func TestLogSurfaceFrames(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, logger.LogLevelInfo, true)
	s := NewLogSurface(l, DefaultMetrics)
	r := NewRenderer(s, DefaultMetrics)

	require.NoError(t, r.Render(4.5, "Moderate: Wear sunscreen and a hat"))
	assert.Equal(t, []string{"UV Index: 4.50", "Moderate: Wear", "sunscreen and a hat"}, s.Frame())

	// An identical frame is not logged twice.
	require.NoError(t, r.Render(4.5, "Moderate: Wear sunscreen and a hat"))
	assert.Equal(t, "display: [UV Index: 4.50 | Moderate: Wear | sunscreen and a hat]\n", buf.String())
}

type fakePanel struct {
	bounds image.Rectangle
	frames []image.Image
}

func (p *fakePanel) Bounds() image.Rectangle { return p.bounds }
func (p *fakePanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if r != p.bounds {
		return fmt.Errorf("unexpected rect %v", r)
	}
	p.frames = append(p.frames, src)
	return nil
}

func TestOLEDDrawsIntoFrameBuffer(t *testing.T) {
	panel := &fakePanel{bounds: image.Rect(0, 0, 128, 64)}
	o := newOLED(panel)

	assert.Equal(t, Metrics{Width: 128, CharWidth: 7, LineHeight: 13}, o.Metrics())

	r := NewRenderer(o, o.Metrics())
	require.NoError(t, r.Render(9.1, "Extreme: Avoid sun exposure!"))
	require.Len(t, panel.frames, 1)
	assert.True(t, anySet(o.img.Pix), "text should light pixels")

	o.Clear()
	require.NoError(t, o.Flush())
	assert.False(t, anySet(o.img.Pix))
}

func anySet(pix []byte) bool {
	for _, b := range pix {
		if b != 0 {
			return true
		}
	}
	return false
}
