package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNibbles(t *testing.T) {
	assert := assert.New(t)

	class, x, y, d := Nibbles(0xd123)
	assert.Equal([4]uint8{0xd, 0x1, 0x2, 0x3}, [4]uint8{class, x, y, d})
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word uint16
		op   Operation
		text string
	}){
		{0x00e0, Operation{Kind: OP_CLEAR}, "CLS"},
		{0x00ee, Operation{Kind: OP_RETURN}, "RET"},
		{0x0123, Operation{Kind: OP_UNKNOWN, Word: 0x0123}, "DW 0x0123"},
		{0x00e1, Operation{Kind: OP_UNKNOWN, Word: 0x00e1}, "DW 0x00E1"},
		{0x1abc, Operation{Kind: OP_JUMP, Addr: 0xabc}, "JP 0xABC"},
		{0x2123, Operation{Kind: OP_CALL, Addr: 0x123}, "CALL 0x123"},
		{0x3a42, Operation{Kind: OP_SKIP_EQ_IMM, X: 0xa, Byte: 0x42}, "SE VA, 0x42"},
		{0x4a42, Operation{Kind: OP_SKIP_NE_IMM, X: 0xa, Byte: 0x42}, "SNE VA, 0x42"},
		{0x5120, Operation{Kind: OP_SKIP_EQ_REG, X: 1, Y: 2}, "SE V1, V2"},
		{0x5121, Operation{Kind: OP_UNKNOWN, Word: 0x5121}, "DW 0x5121"},
		{0x6b44, Operation{Kind: OP_SET_IMM, X: 0xb, Byte: 0x44}, "LD VB, 0x44"},
		{0x7b04, Operation{Kind: OP_ADD_IMM, X: 0xb, Byte: 0x04}, "ADD VB, 0x04"},
		{0x8120, Operation{Kind: OP_COPY, X: 1, Y: 2}, "LD V1, V2"},
		{0x8121, Operation{Kind: OP_OR, X: 1, Y: 2}, "OR V1, V2"},
		{0x8122, Operation{Kind: OP_AND, X: 1, Y: 2}, "AND V1, V2"},
		{0x8123, Operation{Kind: OP_XOR, X: 1, Y: 2}, "XOR V1, V2"},
		{0x8124, Operation{Kind: OP_ADD_CARRY, X: 1, Y: 2}, "ADD V1, V2"},
		{0x8125, Operation{Kind: OP_SUB_BORROW, X: 1, Y: 2}, "SUB V1, V2"},
		{0x8126, Operation{Kind: OP_SHIFT_RIGHT, X: 1, Y: 2}, "SHR V1, V2"},
		{0x8127, Operation{Kind: OP_SUBN_BORROW, X: 1, Y: 2}, "SUBN V1, V2"},
		{0x812e, Operation{Kind: OP_SHIFT_LEFT, X: 1, Y: 2}, "SHL V1, V2"},
		{0x8128, Operation{Kind: OP_UNKNOWN, Word: 0x8128}, "DW 0x8128"},
		{0x9f00, Operation{Kind: OP_SKIP_NE_REG, X: 0xf, Y: 0}, "SNE VF, V0"},
		{0xa2f0, Operation{Kind: OP_SET_INDEX, Addr: 0x2f0}, "LD I, 0x2F0"},
		{0xb300, Operation{Kind: OP_JUMP_ADD_V0, Addr: 0x300}, "JP V0, 0x300"},
		{0xc30f, Operation{Kind: OP_RANDOM, X: 3, Byte: 0x0f}, "RND V3, 0x0F"},
		{0xd015, Operation{Kind: OP_DRAW, X: 0, Y: 1, N: 5}, "DRW V0, V1, 5"},
		{0xe19e, Operation{Kind: OP_UNKNOWN, Word: 0xe19e}, "DW 0xE19E"},
		{0xf207, Operation{Kind: OP_LOAD_DELAY, X: 2}, "LD V2, DT"},
		{0xf20a, Operation{Kind: OP_UNKNOWN, Word: 0xf20a}, "DW 0xF20A"},
		{0xf215, Operation{Kind: OP_SET_DELAY, X: 2}, "LD DT, V2"},
		{0xf218, Operation{Kind: OP_SET_SOUND, X: 2}, "LD ST, V2"},
		{0xf21e, Operation{Kind: OP_ADD_TO_INDEX, X: 2}, "ADD I, V2"},
		{0xf229, Operation{Kind: OP_LOAD_GLYPH, X: 2}, "LD F, V2"},
		{0xf233, Operation{Kind: OP_STORE_BCD, X: 2}, "LD B, V2"},
		{0xf255, Operation{Kind: OP_STORE_REGS, X: 2}, "LD [I], V2"},
		{0xf265, Operation{Kind: OP_LOAD_REGS, X: 2}, "LD V2, [I]"},
	}

	for _, entry := range table {
		op := Decode(entry.word)
		assert.Equal(entry.op, op, "0x%04x", entry.word)
		assert.Equal(entry.text, op.String(), "0x%04x", entry.word)
		assert.Equal(entry.word, op.Encode(), "0x%04x", entry.word)
	}
}

func TestDecode_Total(t *testing.T) {
	assert := assert.New(t)

	kinds := map[Kind]int{}
	for n := range 0x10000 {
		word := uint16(n)
		op := Decode(word)
		if op != Decode(word) {
			t.Fatalf("0x%04x: not deterministic", word)
		}
		if op.Encode() != word {
			t.Fatalf("0x%04x: encodes as 0x%04x", word, op.Encode())
		}
		kinds[op.Kind]++
	}

	// Every operation kind is reachable.
	assert.Equal(int(OP_LOAD_REGS)+1, len(kinds))
	assert.Equal(1, kinds[OP_CLEAR])
	assert.Equal(1, kinds[OP_RETURN])
	assert.Equal(0x1000, kinds[OP_JUMP])
	assert.Equal(0x1000, kinds[OP_DRAW])
	assert.Equal(0x100, kinds[OP_COPY])
	assert.Equal(0x10, kinds[OP_LOAD_REGS])
}

func TestOperation_EncodeMasks(t *testing.T) {
	assert := assert.New(t)

	// Operand fields are truncated to their width.
	op := Operation{Kind: OP_DRAW, X: 0x12, Y: 0x34, N: 0x56}
	assert.Equal(uint16(0xd246), op.Encode())

	op = Operation{Kind: OP_JUMP, Addr: 0x1234}
	assert.Equal(uint16(0x1234), op.Encode())

	// Unused fields are ignored.
	op = Operation{Kind: OP_CLEAR, X: 3, Addr: 0x123}
	assert.Equal(uint16(0x00e0), op.Encode())
}

func TestKind_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Unknown", OP_UNKNOWN.String())
	assert.Equal("SubnBorrow", OP_SUBN_BORROW.String())
	assert.Equal("LoadRegs", OP_LOAD_REGS.String())
	assert.Equal("Kind(99)", Kind(99).String())
}
