// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package display implements the monochrome 64x32 frame buffer of the CHIP-8
// interpreter. All coordinates wrap around the edges.
package display

import (
	"iter"
	"log"
)

const (
	WIDTH           = 64 // Pixels per row.
	HEIGHT          = 32 // Rows.
	SPRITE_WIDTH    = 8  // Pixels per sprite row, one per bit.
	SPRITE_MAX_ROWS = 15 // Largest sprite a draw can blit.
)

// Display is the frame buffer, indexed as Pixel[y][x].
type Display struct {
	Verbose bool
	Pixel   [HEIGHT][WIDTH]bool
	Dirty   bool // Set by Clear and Draw, reset by the host once rendered.
}

// NewDisplay creates a cleared display.
func NewDisplay() (disp *Display) {
	disp = &Display{}

	return
}

func wrap(x, y int) (int, int) {
	x %= WIDTH
	if x < 0 {
		x += WIDTH
	}
	y %= HEIGHT
	if y < 0 {
		y += HEIGHT
	}
	return x, y
}

// Clear turns off every pixel.
func (disp *Display) Clear() {
	if disp.Verbose {
		log.Printf("display: clear")
	}

	disp.Pixel = [HEIGHT][WIDTH]bool{}
	disp.Dirty = true
}

// Get the state of the pixel at (x, y).
func (disp *Display) Get(x, y int) bool {
	x, y = wrap(x, y)
	return disp.Pixel[y][x]
}

// Set the state of the pixel at (x, y).
func (disp *Display) Set(x, y int, on bool) {
	x, y = wrap(x, y)
	disp.Pixel[y][x] = on
	disp.Dirty = true
}

// Draw XORs the sprite onto the display with its top left corner at (x, y),
// one byte per row, most significant bit leftmost. Only the first
// SPRITE_MAX_ROWS rows are drawn.
// Returns true if any pixel that was on was turned off.
func (disp *Display) Draw(x, y int, sprite []byte) (collision bool) {
	if len(sprite) > SPRITE_MAX_ROWS {
		sprite = sprite[:SPRITE_MAX_ROWS]
	}

	if disp.Verbose {
		log.Printf("display: draw (%d,%d) % 02x", x, y, sprite)
	}

	for row, bits := range sprite {
		for col := range SPRITE_WIDTH {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px, py := wrap(x+col, y+row)
			pixel := &disp.Pixel[py][px]
			if *pixel {
				collision = true
			}
			*pixel = !*pixel
		}
	}

	if len(sprite) > 0 {
		disp.Dirty = true
	}

	return
}

// Snapshot returns a copy of the frame buffer.
func (disp *Display) Snapshot() [HEIGHT][WIDTH]bool {
	return disp.Pixel
}

// Rows iterates over the frame buffer, top to bottom.
func (disp *Display) Rows() iter.Seq2[int, [WIDTH]bool] {
	return func(yield func(y int, row [WIDTH]bool) bool) {
		for y, row := range disp.Pixel {
			if !yield(y, row) {
				return
			}
		}
	}
}

// Lit returns the number of pixels that are on.
func (disp *Display) Lit() (count int) {
	for _, row := range disp.Pixel {
		for _, on := range row {
			if on {
				count++
			}
		}
	}
	return
}
