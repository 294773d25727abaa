package cpu

import (
	"iter"
	"strings"

	"github.com/ezrec/chip8/memory"
)

// Opcode is the output of one line of assembly.
type Opcode struct {
	LineNo    int      // Source line number.
	Address   int      // Load address of the first byte.
	Words     []string // Source words, after equate substitution.
	Data      []byte   // Assembled bytes.
	LinkLabel string   // Label whose address is linked into the instruction.
}

// IsData is true for .byte and .word directives.
func (op *Opcode) IsData() bool {
	return len(op.Words) > 0 && strings.HasPrefix(op.Words[0], ".")
}

// link ORs a label address into the address field of the instruction.
func (op *Opcode) link(addr int) (err error) {
	if addr < 0 || addr > memory.MAX_ADDRESS {
		err = ErrValueRange{Value: int64(addr), Max: memory.MAX_ADDRESS}
		return
	}
	if len(op.Data) != WORD_SIZE || op.IsData() {
		err = ErrOperandInvalid
		return
	}

	op.Data[0] |= byte(addr>>8) & 0xf
	op.Data[1] |= byte(addr)

	return
}

// Program is an assembled program, loaded at memory.PROGRAM_START.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the source of an address in a Program.
type Debug struct {
	*Opcode
	Index int // Byte offset of the address into the Opcode's data.
}

func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(address) >= op.Address && int(address) < op.Address+len(op.Data) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(address) - op.Address,
			}
			break
		}
	}

	return
}

// Binary returns the program image, starting at memory.PROGRAM_START.
func (prog *Program) Binary() (bin []byte) {
	for _, op := range prog.Opcodes {
		offset := op.Address - memory.PROGRAM_START
		if offset > len(bin) {
			bin = append(bin, make([]byte, offset-len(bin))...)
		}
		bin = append(bin[:offset], op.Data...)
	}

	return
}

// Operations iterates over the decoded instructions of the program, by address.
// Data directives are skipped.
func (prog *Program) Operations() iter.Seq2[uint16, Operation] {
	return func(yield func(address uint16, op Operation) bool) {
		for _, opcode := range prog.Opcodes {
			if opcode.IsData() {
				continue
			}
			for n := 0; n+1 < len(opcode.Data); n += WORD_SIZE {
				word := uint16(opcode.Data[n])<<8 | uint16(opcode.Data[n+1])
				if !yield(uint16(opcode.Address+n), Decode(word)) {
					return
				}
			}
		}
	}
}
