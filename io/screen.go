package io

import (
	"bufio"
	"io"
	"strings"

	"github.com/ezrec/chip8/display"
)

const (
	SCREEN_ON  = '#' // Default rune for a lit pixel.
	SCREEN_OFF = '.' // Default rune for a dark pixel.
)

// Screen renders display frames as text.
type Screen struct {
	Output io.Writer
	On     rune // Lit pixel, SCREEN_ON if zero.
	Off    rune // Dark pixel, SCREEN_OFF if zero.
	Scale  int  // Runes per pixel, horizontally and vertically. 1 if zero.

	Frames int // Count of rendered frames.
}

// Render writes one bordered frame of the display, and marks the display clean.
func (scr *Screen) Render(disp *display.Display) (err error) {
	scale := scr.Scale
	switch {
	case scale == 0:
		scale = 1
	case scale < 0:
		err = ErrScaleInvalid
		return
	}

	on, off := scr.On, scr.Off
	if on == 0 {
		on = SCREEN_ON
	}
	if off == 0 {
		off = SCREEN_OFF
	}

	out := bufio.NewWriter(scr.Output)

	border := "+" + strings.Repeat("-", display.WIDTH*scale) + "+\n"
	out.WriteString(border)

	var line strings.Builder
	for _, row := range disp.Rows() {
		line.Reset()
		line.WriteRune('|')
		for _, lit := range row {
			pixel := off
			if lit {
				pixel = on
			}
			for range scale {
				line.WriteRune(pixel)
			}
		}
		line.WriteString("|\n")
		for range scale {
			out.WriteString(line.String())
		}
	}

	out.WriteString(border)

	err = out.Flush()
	if err != nil {
		return
	}

	disp.Dirty = false
	scr.Frames++

	return
}
