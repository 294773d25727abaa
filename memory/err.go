package memory

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrOutOfBounds = errors.New(f("address out of bounds"))
	ErrFontBase    = errors.New(f("font table overlaps program space"))
)

// ErrAddress is the faulting address of an out-of-bounds access.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%04x out of bounds", int(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrOutOfBounds
}
