package io

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/chip8/display"
)

func TestScreen_Render(t *testing.T) {
	assert := assert.New(t)

	disp := display.NewDisplay()
	disp.Set(0, 0, true)
	disp.Set(63, 31, true)
	assert.True(disp.Dirty)

	var out strings.Builder
	scr := &Screen{Output: &out}

	assert.NoError(scr.Render(disp))
	assert.False(disp.Dirty)
	assert.Equal(1, scr.Frames)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(display.HEIGHT+2, len(lines))
	border := "+" + strings.Repeat("-", display.WIDTH) + "+"
	assert.Equal(border, lines[0])
	assert.Equal(border, lines[len(lines)-1])
	assert.Equal("|#"+strings.Repeat(".", display.WIDTH-1)+"|", lines[1])
	assert.Equal("|"+strings.Repeat(".", display.WIDTH-1)+"#|", lines[display.HEIGHT])
}

func TestScreen_Scale(t *testing.T) {
	assert := assert.New(t)

	disp := display.NewDisplay()
	disp.Set(1, 0, true)

	var out strings.Builder
	scr := &Screen{Output: &out, On: '@', Off: ' ', Scale: 2}

	assert.NoError(scr.Render(disp))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(display.HEIGHT*2+2, len(lines))
	row := "|  @@" + strings.Repeat(" ", (display.WIDTH-2)*2) + "|"
	assert.Equal(row, lines[1])
	assert.Equal(row, lines[2])
	assert.Equal("|"+strings.Repeat(" ", display.WIDTH*2)+"|", lines[3])

	scr.Scale = -1
	assert.ErrorIs(scr.Render(disp), ErrScaleInvalid)
	assert.Equal(1, scr.Frames)
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestScreen_RenderError(t *testing.T) {
	assert := assert.New(t)

	disp := display.NewDisplay()
	disp.Set(1, 0, true)

	scr := &Screen{Output: failWriter{}}
	assert.EqualError(scr.Render(disp), "write failed")
	assert.True(disp.Dirty)
	assert.Equal(0, scr.Frames)
}
