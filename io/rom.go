package io

import (
	"bytes"
	"io"
	"io/fs"
	"iter"

	"github.com/ezrec/chip8/memory"
)

// MAX_ROM_SIZE is the largest image that fits between memory.PROGRAM_START
// and the end of memory.
const MAX_ROM_SIZE = memory.SIZE - memory.PROGRAM_START

// Rom is a raw program image, loaded verbatim at memory.PROGRAM_START.
type Rom struct {
	Data []byte
}

// ReadRom reads an entire image from a reader.
func ReadRom(r io.Reader) (rom *Rom, err error) {
	data, err := io.ReadAll(io.LimitReader(r, MAX_ROM_SIZE+1))
	if err != nil {
		return
	}

	switch {
	case len(data) == 0:
		err = ErrRomEmpty
		return
	case len(data) > MAX_ROM_SIZE:
		err = ErrRomTooLarge
		return
	}

	rom = &Rom{Data: data}
	return
}

// OpenRom reads an image from a file system.
func OpenRom(fsys fs.FS, name string) (rom *Rom, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	return ReadRom(inf)
}

// Words iterates over the image as big-endian instruction words, by load
// address. A trailing odd byte is padded with zero.
func (rom *Rom) Words() iter.Seq2[uint16, uint16] {
	return func(yield func(address uint16, word uint16) bool) {
		for n := 0; n < len(rom.Data); n += 2 {
			word := uint16(rom.Data[n]) << 8
			if n+1 < len(rom.Data) {
				word |= uint16(rom.Data[n+1])
			}
			if !yield(uint16(memory.PROGRAM_START+n), word) {
				return
			}
		}
	}
}

// WriteTo writes the image to a writer.
func (rom *Rom) WriteTo(w io.Writer) (n int64, err error) {
	return bytes.NewReader(rom.Data).WriteTo(w)
}
