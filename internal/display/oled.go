// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// frameSink is the part of *ssd1306.Dev the OLED surface needs.
type frameSink interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// OLED is a Surface backed by an SSD1306 panel. Frames are composed in
// a 1-bit buffer and sent to the panel on Flush.
type OLED struct {
	dev    frameSink
	face   *basicfont.Face
	img    *image1bit.VerticalLSB
	drawer *font.Drawer
}

// OpenOLED initializes an SSD1306 on the given I2C bus.
func OpenOLED(bus i2c.Bus) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	return newOLED(dev), nil
}

func newOLED(dev frameSink) *OLED {
	face := basicfont.Face7x13
	img := image1bit.NewVerticalLSB(dev.Bounds())
	return &OLED{
		dev:  dev,
		face: face,
		img:  img,
		drawer: &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{image1bit.On},
			Face: face,
		},
	}
}

// Metrics reports the layout of the panel with the built-in 7x13 face.
func (o *OLED) Metrics() Metrics {
	return Metrics{
		Width:      o.img.Bounds().Dx(),
		CharWidth:  o.face.Advance,
		LineHeight: o.face.Height,
	}
}

func (o *OLED) Clear() {
	for i := range o.img.Pix {
		o.img.Pix[i] = 0
	}
}

// SetCursor places the top of the next text at y; the drawer works on
// the baseline, so the face ascent is added.
func (o *OLED) SetCursor(x, y int) {
	o.drawer.Dot = fixed.P(x, y+o.face.Ascent)
}

func (o *OLED) DrawText(s string) {
	o.drawer.DrawString(s)
}

func (o *OLED) Flush() error {
	return o.dev.Draw(o.dev.Bounds(), o.img, image.Point{})
}
