// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/memory"
)

// Config selects the interpreter variant.
type Config struct {
	FontBase   uint16 // Glyph table base, below memory.PROGRAM_START.
	StackLimit int    // Maximum call depth, 0 for unbounded.
	Seed       int64  // Random operation seed.
}

// DefaultConfig returns the usual interpreter configuration.
func DefaultConfig() Config {
	return Config{
		FontBase: memory.FONT_BASE,
	}
}

// PROGRAM_START, MEMORY_SIZE and FLAG_REGISTER are assembler system equates.
var _emulator_defines = map[string]string{
	"DISPLAY_WIDTH":  fmt.Sprintf("%v", display.WIDTH),
	"DISPLAY_HEIGHT": fmt.Sprintf("%v", display.HEIGHT),
	"GLYPH_SIZE":     fmt.Sprintf("%v", memory.GLYPH_SIZE),
}

// Emulator state. CPU + memory + display.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Config   Config       // Configuration the emulator was built with.
}

// NewEmulator creates a new emulator.
func NewEmulator(config Config) (emu *Emulator, err error) {
	mem, err := memory.NewMemory(config.FontBase)
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:     cpu.NewCpu(mem, display.NewDisplay()),
		Program: &cpu.Program{},
		Config:  config,
	}

	emu.Cpu.Stack.Limit = config.StackLimit
	emu.Cpu.Seed(config.Seed)

	return
}

// Defines returns an iterator over all of the assembler predefines
// describing this emulator.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	font := map[string]string{
		"FONT_BASE": fmt.Sprintf("%#x", emu.Config.FontBase),
	}
	return internal.IterSeq2Concat(maps.All(_emulator_defines), maps.All(font))
}

// Assembler returns an assembler predefined with the emulator's defines.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}

	return
}

// Reset the machine, reseed the random source, and reload the program listing.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = false
	emu.Cpu.Display.Verbose = emu.Verbose

	emu.Cpu.Reset()
	emu.Cpu.Seed(emu.Config.Seed)

	err = emu.Cpu.Memory.Load(emu.Program.Binary())
	if err != nil {
		return
	}

	emu.Cpu.Verbose = emu.Verbose

	return
}

// Load copies a raw program image to memory.PROGRAM_START.
// The program counter is not changed, and any program listing is dropped.
func (emu *Emulator) Load(rom []byte) (err error) {
	err = emu.Cpu.Memory.Load(rom)
	if err != nil {
		return
	}

	emu.Program = &cpu.Program{}

	return
}

// LoadProgram resets the emulator with an assembled program.
func (emu *Emulator) LoadProgram(prog *cpu.Program) (err error) {
	emu.Program = prog

	return emu.Reset()
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number of the current instruction,
// or 0 if there is no listing for it.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set when the instruction left the program counter unchanged,
// which is the halt idiom of a jump to itself.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Pc == pc

	return
}

// Run performs at most limit instructions, stopping early on a halt.
// A limit of 0 or less runs until a halt or an error.
func (emu *Emulator) Run(limit int) (ticks int, done bool, err error) {
	for limit <= 0 || ticks < limit {
		done, err = emu.Tick()
		if err != nil {
			return
		}
		ticks++
		if done {
			if emu.Verbose {
				log.Printf("emulator: halt at 0x%03x after %d ticks", emu.Cpu.Pc, ticks)
			}
			return
		}
	}

	return
}

// DecrementTimers counts the delay and sound timers down by one, stopping at
// zero. Hosts call this at 60Hz.
func (emu *Emulator) DecrementTimers() {
	if emu.Cpu.Delay > 0 {
		emu.Cpu.Delay--
	}
	if emu.Cpu.Sound > 0 {
		emu.Cpu.Sound--
	}
}
