package cpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0x200, Words: []string{"LD", "V0", "0x10"}, Data: []byte{0x60, 0x10}},
			{LineNo: 2, Address: 0x202, Words: []string{"LD", "V1", "0x20"}, Data: []byte{0x61, 0x20}},
			{LineNo: 4, Address: 0x204, Words: []string{"ADD", "V0", "V1"}, Data: []byte{0x80, 0x14}},
		},
	}

	dbg := prog.Debug(0x200)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x203)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(0x204)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0x200, Words: []string{"CLS"}, Data: []byte{0x00, 0xe0}},
		},
	}

	dbg := prog.Debug(0x202)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x1ff)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.Nil(prog.Binary())

	prog = &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0x200, Words: []string{".byte", "1", "2", "3"}, Data: []byte{1, 2, 3}},
			{LineNo: 2, Address: 0x203, Words: []string{"CLS"}, Data: []byte{0x00, 0xe0}},
			{LineNo: 3, Address: 0x208, Words: []string{"RET"}, Data: []byte{0x00, 0xee}},
		},
	}

	assert.Equal([]byte{1, 2, 3, 0x00, 0xe0, 0, 0, 0, 0x00, 0xee}, prog.Binary())
}

func TestProgram_Operations(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"    CLS",
		"    .byte 0xaa",
		"    DRW V1, V2, 3",
		"    .word 0x00e0",
		"    DW 0x0123",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	var text []string
	for address, op := range prog.Operations() {
		text = append(text, fmt.Sprintf("%03x: %v", address, op))
	}

	assert.Equal([]string{
		"200: CLS",
		"203: DRW V1, V2, 3",
		"207: DW 0x0123",
	}, text)

	// Early exit
	count := 0
	for range prog.Operations() {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestOpcode_Link(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op   Opcode
		addr int
		data []byte
		err  error
	}){
		{Opcode{Words: []string{"JP", "top"}, Data: []byte{0x10, 0x00}}, 0x234, []byte{0x12, 0x34}, nil},
		{Opcode{Words: []string{"LD", "I", "top"}, Data: []byte{0xa0, 0x00}}, 0xfff, []byte{0xaf, 0xff}, nil},
		{Opcode{Words: []string{"JP", "top"}, Data: []byte{0x10, 0x00}}, 0x1000, []byte{0x10, 0x00}, ErrValueRange{Value: 0x1000, Max: 0xfff}},
		{Opcode{Words: []string{".byte", "top"}, Data: []byte{0x00}}, 0x234, []byte{0x00}, ErrOperandInvalid},
		{Opcode{Words: []string{".word", "top"}, Data: []byte{0x00, 0x00}}, 0x234, []byte{0x00, 0x00}, ErrOperandInvalid},
	}

	for _, entry := range table {
		op := entry.op
		err := op.link(entry.addr)
		if entry.err == nil {
			assert.NoError(err, op.Words)
		} else {
			assert.ErrorIs(err, entry.err, op.Words)
		}
		assert.Equal(entry.data, op.Data, op.Words)
	}
}
