// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the 4K byte addressable store of the CHIP-8
// interpreter, with the hexadecimal glyph table preloaded into low memory.
package memory

const (
	SIZE          = 0x1000 // Size of the address space.
	MAX_ADDRESS   = 0xfff  // Highest valid address.
	PROGRAM_START = 0x200  // Programs are loaded here, and execute from here.
	FONT_BASE     = 0x050  // Default glyph table base.
	GLYPH_SIZE    = 5      // Bytes per glyph.
	GLYPH_COUNT   = 16     // Glyphs 0-F.
)

// Glyph is the built in font, one 5 byte sprite per hexadecimal digit.
var Glyph = [GLYPH_COUNT * GLYPH_SIZE]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}

// Memory is the interpreter's address space.
// There is no write protection; programs may overwrite the glyphs.
type Memory struct {
	Data     [SIZE]byte
	FontBase uint16 // Address of the glyph for digit 0.
}

// NewMemory creates a cleared memory with the glyph table at fontBase.
func NewMemory(fontBase uint16) (mem *Memory, err error) {
	if int(fontBase)+len(Glyph) > PROGRAM_START {
		err = ErrFontBase
		return
	}

	mem = &Memory{
		FontBase: fontBase,
	}

	mem.Reset()

	return
}

// Reset zeros the address space and reinstalls the glyph table.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
	copy(mem.Data[mem.FontBase:], Glyph[:])
}

// GlyphAddress returns the address of the glyph for the low nibble of digit.
func (mem *Memory) GlyphAddress(digit uint8) uint16 {
	return mem.FontBase + uint16(digit&0xf)*GLYPH_SIZE
}

// check verifies that count bytes starting at address are addressable.
func check(address uint16, count int) (err error) {
	if count == 0 {
		return
	}

	last := int(address) + count - 1
	switch {
	case address > MAX_ADDRESS:
		err = ErrAddress(address)
	case last > MAX_ADDRESS:
		err = ErrAddress(last)
	}

	return
}

// Read a byte.
func (mem *Memory) Read(address uint16) (value byte, err error) {
	err = check(address, 1)
	if err != nil {
		return
	}

	value = mem.Data[address]
	return
}

// Write a byte.
func (mem *Memory) Write(address uint16, value byte) (err error) {
	err = check(address, 1)
	if err != nil {
		return
	}

	mem.Data[address] = value
	return
}

// ReadBlock fills out from consecutive addresses. Nothing is read unless the
// entire range is addressable.
func (mem *Memory) ReadBlock(address uint16, out []byte) (err error) {
	err = check(address, len(out))
	if err != nil || len(out) == 0 {
		return
	}

	copy(out, mem.Data[address:])
	return
}

// WriteBlock stores data at consecutive addresses. Nothing is written unless the
// entire range is addressable.
func (mem *Memory) WriteBlock(address uint16, data []byte) (err error) {
	err = check(address, len(data))
	if err != nil || len(data) == 0 {
		return
	}

	copy(mem.Data[address:], data)
	return
}

// Load copies a program image to PROGRAM_START.
func (mem *Memory) Load(program []byte) (err error) {
	return mem.WriteBlock(PROGRAM_START, program)
}
