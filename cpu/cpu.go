package cpu

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/memory"
)

const (
	REGISTERS     = 16  // General purpose registers, V0 to VF.
	FLAG_REGISTER = 0xf // VF, overwritten by carry, borrow and collision results.
	WORD_SIZE     = 2   // Bytes per instruction word.
)

// Cpu is the simulation context for the CHIP-8 interpreter.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory  *memory.Memory   // Address space.
	Display *display.Display // Frame buffer.

	Pc       uint16           // Program counter.
	Index    uint16           // Address register, I.
	Register [REGISTERS]uint8 // Register bank, V0 to VF.
	Stack    Stack            // Return addresses.
	Delay    uint8            // Delay timer, decremented by the host.
	Sound    uint8            // Sound timer, decremented by the host.
	Rand     *rand.Rand       // Source for the random operation.
	Ticks    int              // CPU ticks counter.
}

// NewCpu creates a CPU attached to an address space and a frame buffer,
// ready to execute from PROGRAM_START.
func NewCpu(mem *memory.Memory, disp *display.Display) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:  mem,
		Display: disp,
		Pc:      memory.PROGRAM_START,
		Rand:    rand.New(rand.NewSource(0)),
	}

	return
}

// Seed reseeds the random operation's source.
func (cpu *Cpu) Seed(seed int64) {
	cpu.Rand.Seed(seed)
}

// Reset the CPU state.
// - Clears the registers, index, stack and timers.
// - Clears the display, and restores memory to the glyph table only.
// - Zeros the tick counter.
// - Sets PC to PROGRAM_START.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Index = 0
	cpu.Stack.Reset()
	cpu.Delay = 0
	cpu.Sound = 0
	cpu.Ticks = 0
	cpu.Pc = memory.PROGRAM_START

	cpu.Memory.Reset()
	cpu.Display.Clear()
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %03X\n", "i", cpu.Index)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%X", n), val)
	}
	strval := "---"
	if val, ok := cpu.Stack.Peek(); ok {
		strval = fmt.Sprintf("%03X", val)
	}
	text += fmt.Sprintf("% 5s: %v (%d)\n", "stack", strval, cpu.Stack.Depth())
	text += fmt.Sprintf("% 5s: %02X\n", "dt", cpu.Delay)
	text += fmt.Sprintf("% 5s: %02X\n", "st", cpu.Sound)

	return
}

// Fetch reads the big-endian instruction word at PC, and advances PC past it.
// PC is unchanged on failure.
func (cpu *Cpu) Fetch() (word uint16, err error) {
	var buff [WORD_SIZE]byte
	err = cpu.Memory.ReadBlock(cpu.Pc, buff[:])
	if err != nil {
		return
	}

	word = uint16(buff[0])<<8 | uint16(buff[1])
	cpu.Pc += WORD_SIZE

	return
}

// Tick executes a single CPU instruction cycle: fetch, decode, execute.
// On failure the PC is restored to the faulting instruction.
func (cpu *Cpu) Tick() (err error) {
	pc := cpu.Pc
	defer func() {
		if err != nil {
			cpu.Pc = pc
		}
	}()

	word, err := cpu.Fetch()
	if err != nil {
		return
	}

	op := Decode(word)
	if cpu.Verbose {
		log.Printf("%03x: %v", pc, op)
	}

	err = cpu.Execute(op)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// skipIf advances PC past the next instruction when cond holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.Pc += WORD_SIZE
	}
}

// setFlagged stores a result in Vx, then the flag in VF.
func (cpu *Cpu) setFlagged(x uint8, value uint8, flag bool) {
	cpu.Register[x] = value
	cpu.Register[FLAG_REGISTER] = 0
	if flag {
		cpu.Register[FLAG_REGISTER] = 1
	}
}

// Execute applies a single decoded operation to the machine state.
// PC is expected to already address the following instruction.
// A failed operation leaves the state unchanged.
func (cpu *Cpu) Execute(op Operation) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(op), err)
		}
	}()

	x, y := op.X&0xf, op.Y&0xf
	vx := cpu.Register[x]
	vy := cpu.Register[y]

	switch op.Kind {
	case OP_UNKNOWN:
		// No-op.
	case OP_CLEAR:
		cpu.Display.Clear()
	case OP_RETURN:
		pc, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackEmpty
			return
		}
		cpu.Pc = pc
	case OP_JUMP:
		cpu.Pc = op.Addr
	case OP_CALL:
		if cpu.Stack.Full() {
			err = ErrStackFull
			return
		}
		cpu.Stack.Push(cpu.Pc)
		cpu.Pc = op.Addr
	case OP_SKIP_EQ_IMM:
		cpu.skipIf(vx == op.Byte)
	case OP_SKIP_NE_IMM:
		cpu.skipIf(vx != op.Byte)
	case OP_SKIP_EQ_REG:
		cpu.skipIf(vx == vy)
	case OP_SKIP_NE_REG:
		cpu.skipIf(vx != vy)
	case OP_SET_IMM:
		cpu.Register[x] = op.Byte
	case OP_ADD_IMM:
		cpu.Register[x] = vx + op.Byte
	case OP_COPY:
		cpu.Register[x] = vy
	case OP_OR:
		cpu.Register[x] = vx | vy
	case OP_AND:
		cpu.Register[x] = vx & vy
	case OP_XOR:
		cpu.Register[x] = vx ^ vy
	case OP_ADD_CARRY:
		sum := uint16(vx) + uint16(vy)
		cpu.setFlagged(x, uint8(sum), sum > 0xff)
	case OP_SUB_BORROW:
		cpu.setFlagged(x, vx-vy, vx >= vy)
	case OP_SUBN_BORROW:
		cpu.setFlagged(x, vy-vx, vy >= vx)
	case OP_SHIFT_RIGHT:
		cpu.setFlagged(x, vy>>1, vy&0x01 != 0)
	case OP_SHIFT_LEFT:
		cpu.setFlagged(x, vy<<1, vy&0x80 != 0)
	case OP_SET_INDEX:
		cpu.Index = op.Addr
	case OP_JUMP_ADD_V0:
		cpu.Pc = op.Addr + uint16(cpu.Register[0])
	case OP_RANDOM:
		cpu.Register[x] = uint8(cpu.Rand.Intn(0x100)) & op.Byte
	case OP_DRAW:
		sprite := make([]byte, op.N)
		err = cpu.Memory.ReadBlock(cpu.Index, sprite)
		if err != nil {
			return
		}
		collision := cpu.Display.Draw(int(vx), int(vy), sprite)
		cpu.setFlagged(FLAG_REGISTER, 0, collision)
	case OP_LOAD_DELAY:
		cpu.Register[x] = cpu.Delay
	case OP_SET_DELAY:
		cpu.Delay = vx
	case OP_SET_SOUND:
		cpu.Sound = vx
	case OP_ADD_TO_INDEX:
		cpu.Index += uint16(vx)
	case OP_LOAD_GLYPH:
		cpu.Index = cpu.Memory.GlyphAddress(vx)
	case OP_STORE_BCD:
		digits := []byte{vx / 100, (vx / 10) % 10, vx % 10}
		err = cpu.Memory.WriteBlock(cpu.Index, digits)
	case OP_STORE_REGS:
		err = cpu.Memory.WriteBlock(cpu.Index, cpu.Register[:x+1])
	case OP_LOAD_REGS:
		var regs [REGISTERS]uint8
		err = cpu.Memory.ReadBlock(cpu.Index, regs[:x+1])
		if err != nil {
			return
		}
		copy(cpu.Register[:x+1], regs[:x+1])
	default:
		err = ErrOpcodeInvalid
	}

	return
}
