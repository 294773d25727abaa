package cpu

import (
	"fmt"
)

// Kind is the class of a decoded operation.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	OP_UNKNOWN      = Kind(0)  // Unknown
	OP_CLEAR        = Kind(1)  // Clear
	OP_RETURN       = Kind(2)  // Return
	OP_JUMP         = Kind(3)  // Jump
	OP_CALL         = Kind(4)  // Call
	OP_SKIP_EQ_IMM  = Kind(5)  // SkipEqImm
	OP_SKIP_NE_IMM  = Kind(6)  // SkipNeImm
	OP_SKIP_EQ_REG  = Kind(7)  // SkipEqReg
	OP_SET_IMM      = Kind(8)  // SetImm
	OP_ADD_IMM      = Kind(9)  // AddImm
	OP_COPY         = Kind(10) // Copy
	OP_OR           = Kind(11) // Or
	OP_AND          = Kind(12) // And
	OP_XOR          = Kind(13) // Xor
	OP_ADD_CARRY    = Kind(14) // AddCarry
	OP_SUB_BORROW   = Kind(15) // SubBorrow
	OP_SHIFT_RIGHT  = Kind(16) // ShiftRight
	OP_SUBN_BORROW  = Kind(17) // SubnBorrow
	OP_SHIFT_LEFT   = Kind(18) // ShiftLeft
	OP_SKIP_NE_REG  = Kind(19) // SkipNeReg
	OP_SET_INDEX    = Kind(20) // SetIndex
	OP_JUMP_ADD_V0  = Kind(21) // JumpAddV0
	OP_RANDOM       = Kind(22) // Random
	OP_DRAW         = Kind(23) // Draw
	OP_LOAD_DELAY   = Kind(24) // LoadDelay
	OP_SET_DELAY    = Kind(25) // SetDelay
	OP_SET_SOUND    = Kind(26) // SetSound
	OP_ADD_TO_INDEX = Kind(27) // AddToIndex
	OP_LOAD_GLYPH   = Kind(28) // LoadGlyph
	OP_STORE_BCD    = Kind(29) // StoreBCD
	OP_STORE_REGS   = Kind(30) // StoreRegs
	OP_LOAD_REGS    = Kind(31) // LoadRegs
)

// Field is a set of operand fields used by a Kind.
type Field uint8

const (
	FIELD_X    = Field(1 << 0) // Register index, bits 8-11.
	FIELD_Y    = Field(1 << 1) // Register index, bits 4-7.
	FIELD_BYTE = Field(1 << 2) // Immediate, bits 0-7.
	FIELD_ADDR = Field(1 << 3) // Address, bits 0-11.
	FIELD_N    = Field(1 << 4) // Count, bits 0-3.
)

// decodeRule matches an instruction word when (word & mask) == match.
type decodeRule struct {
	mask   uint16
	match  uint16
	kind   Kind
	fields Field
}

// decodeTable is scanned in order; the first matching rule wins.
var decodeTable = []decodeRule{
	{0xffff, 0x00e0, OP_CLEAR, 0},
	{0xffff, 0x00ee, OP_RETURN, 0},
	{0xf000, 0x1000, OP_JUMP, FIELD_ADDR},
	{0xf000, 0x2000, OP_CALL, FIELD_ADDR},
	{0xf000, 0x3000, OP_SKIP_EQ_IMM, FIELD_X | FIELD_BYTE},
	{0xf000, 0x4000, OP_SKIP_NE_IMM, FIELD_X | FIELD_BYTE},
	{0xf00f, 0x5000, OP_SKIP_EQ_REG, FIELD_X | FIELD_Y},
	{0xf000, 0x6000, OP_SET_IMM, FIELD_X | FIELD_BYTE},
	{0xf000, 0x7000, OP_ADD_IMM, FIELD_X | FIELD_BYTE},
	{0xf00f, 0x8000, OP_COPY, FIELD_X | FIELD_Y},
	{0xf00f, 0x8001, OP_OR, FIELD_X | FIELD_Y},
	{0xf00f, 0x8002, OP_AND, FIELD_X | FIELD_Y},
	{0xf00f, 0x8003, OP_XOR, FIELD_X | FIELD_Y},
	{0xf00f, 0x8004, OP_ADD_CARRY, FIELD_X | FIELD_Y},
	{0xf00f, 0x8005, OP_SUB_BORROW, FIELD_X | FIELD_Y},
	{0xf00f, 0x8006, OP_SHIFT_RIGHT, FIELD_X | FIELD_Y},
	{0xf00f, 0x8007, OP_SUBN_BORROW, FIELD_X | FIELD_Y},
	{0xf00f, 0x800e, OP_SHIFT_LEFT, FIELD_X | FIELD_Y},
	{0xf00f, 0x9000, OP_SKIP_NE_REG, FIELD_X | FIELD_Y},
	{0xf000, 0xa000, OP_SET_INDEX, FIELD_ADDR},
	{0xf000, 0xb000, OP_JUMP_ADD_V0, FIELD_ADDR},
	{0xf000, 0xc000, OP_RANDOM, FIELD_X | FIELD_BYTE},
	{0xf000, 0xd000, OP_DRAW, FIELD_X | FIELD_Y | FIELD_N},
	{0xf0ff, 0xf007, OP_LOAD_DELAY, FIELD_X},
	{0xf0ff, 0xf015, OP_SET_DELAY, FIELD_X},
	{0xf0ff, 0xf018, OP_SET_SOUND, FIELD_X},
	{0xf0ff, 0xf01e, OP_ADD_TO_INDEX, FIELD_X},
	{0xf0ff, 0xf029, OP_LOAD_GLYPH, FIELD_X},
	{0xf0ff, 0xf033, OP_STORE_BCD, FIELD_X},
	{0xf0ff, 0xf055, OP_STORE_REGS, FIELD_X},
	{0xf0ff, 0xf065, OP_LOAD_REGS, FIELD_X},
}

// kindRule indexes decodeTable by Kind, for encoding.
var kindRule = func() (rules map[Kind]decodeRule) {
	rules = make(map[Kind]decodeRule, len(decodeTable))
	for _, rule := range decodeTable {
		rules[rule.kind] = rule
	}
	return
}()

// Operation is a decoded instruction. Only the operand fields used by its
// Kind are set; the rest are zero.
type Operation struct {
	Kind Kind
	X    uint8  // Register index.
	Y    uint8  // Register index.
	Byte uint8  // 8-bit immediate.
	Addr uint16 // 12-bit address.
	N    uint8  // 4-bit count.
	Word uint16 // Raw instruction word, OP_UNKNOWN only.
}

// Nibbles splits an instruction word into class, x, y and discriminator.
func Nibbles(word uint16) (class, x, y, d uint8) {
	class = uint8(word>>12) & 0xf
	x = uint8(word>>8) & 0xf
	y = uint8(word>>4) & 0xf
	d = uint8(word>>0) & 0xf
	return
}

// Decode classifies an instruction word. Every word decodes; words that
// match no rule are OP_UNKNOWN.
func Decode(word uint16) (op Operation) {
	for _, rule := range decodeTable {
		if word&rule.mask != rule.match {
			continue
		}

		_, x, y, d := Nibbles(word)
		op.Kind = rule.kind
		if rule.fields&FIELD_X != 0 {
			op.X = x
		}
		if rule.fields&FIELD_Y != 0 {
			op.Y = y
		}
		if rule.fields&FIELD_BYTE != 0 {
			op.Byte = uint8(word & 0xff)
		}
		if rule.fields&FIELD_ADDR != 0 {
			op.Addr = word & 0xfff
		}
		if rule.fields&FIELD_N != 0 {
			op.N = d
		}
		return
	}

	op = Operation{Kind: OP_UNKNOWN, Word: word}
	return
}

// Encode returns the instruction word for the operation.
// Encode(Decode(word)) == word for every word.
func (op Operation) Encode() (word uint16) {
	rule, ok := kindRule[op.Kind]
	if !ok {
		return op.Word
	}

	word = rule.match
	if rule.fields&FIELD_X != 0 {
		word |= uint16(op.X&0xf) << 8
	}
	if rule.fields&FIELD_Y != 0 {
		word |= uint16(op.Y&0xf) << 4
	}
	if rule.fields&FIELD_BYTE != 0 {
		word |= uint16(op.Byte)
	}
	if rule.fields&FIELD_ADDR != 0 {
		word |= op.Addr & 0xfff
	}
	if rule.fields&FIELD_N != 0 {
		word |= uint16(op.N & 0xf)
	}

	return
}

// String returns the assembly language representation of the operation.
func (op Operation) String() (out string) {
	vx := fmt.Sprintf("V%X", op.X)
	vy := fmt.Sprintf("V%X", op.Y)
	kk := fmt.Sprintf("0x%02X", op.Byte)
	nnn := fmt.Sprintf("0x%03X", op.Addr)

	switch op.Kind {
	case OP_CLEAR:
		out = "CLS"
	case OP_RETURN:
		out = "RET"
	case OP_JUMP:
		out = "JP " + nnn
	case OP_CALL:
		out = "CALL " + nnn
	case OP_SKIP_EQ_IMM:
		out = "SE " + vx + ", " + kk
	case OP_SKIP_NE_IMM:
		out = "SNE " + vx + ", " + kk
	case OP_SKIP_EQ_REG:
		out = "SE " + vx + ", " + vy
	case OP_SET_IMM:
		out = "LD " + vx + ", " + kk
	case OP_ADD_IMM:
		out = "ADD " + vx + ", " + kk
	case OP_COPY:
		out = "LD " + vx + ", " + vy
	case OP_OR:
		out = "OR " + vx + ", " + vy
	case OP_AND:
		out = "AND " + vx + ", " + vy
	case OP_XOR:
		out = "XOR " + vx + ", " + vy
	case OP_ADD_CARRY:
		out = "ADD " + vx + ", " + vy
	case OP_SUB_BORROW:
		out = "SUB " + vx + ", " + vy
	case OP_SHIFT_RIGHT:
		out = "SHR " + vx + ", " + vy
	case OP_SUBN_BORROW:
		out = "SUBN " + vx + ", " + vy
	case OP_SHIFT_LEFT:
		out = "SHL " + vx + ", " + vy
	case OP_SKIP_NE_REG:
		out = "SNE " + vx + ", " + vy
	case OP_SET_INDEX:
		out = "LD I, " + nnn
	case OP_JUMP_ADD_V0:
		out = "JP V0, " + nnn
	case OP_RANDOM:
		out = "RND " + vx + ", " + kk
	case OP_DRAW:
		out = fmt.Sprintf("DRW %v, %v, %d", vx, vy, op.N)
	case OP_LOAD_DELAY:
		out = "LD " + vx + ", DT"
	case OP_SET_DELAY:
		out = "LD DT, " + vx
	case OP_SET_SOUND:
		out = "LD ST, " + vx
	case OP_ADD_TO_INDEX:
		out = "ADD I, " + vx
	case OP_LOAD_GLYPH:
		out = "LD F, " + vx
	case OP_STORE_BCD:
		out = "LD B, " + vx
	case OP_STORE_REGS:
		out = "LD [I], " + vx
	case OP_LOAD_REGS:
		out = "LD " + vx + ", [I]"
	default:
		out = fmt.Sprintf("DW 0x%04X", op.Encode())
	}

	return
}
