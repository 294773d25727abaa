// Package cpu implements the CHIP-8 interpreter core and its assembler.
//
// The interpreter has sixteen 8-bit registers (V0-VF, VF doubling as the
// flag register), a 16-bit index register (I), a program counter (PC), a
// return address stack, and delay and sound timers. Each Tick fetches the
// big-endian instruction word at PC, advances PC by 2, decodes the word
// into an Operation, and executes it against the registers, memory and
// display.
//
// The assembler accepts the conventional CHIP-8 mnemonics, with labels,
// equates, data bytes and compile-time $(...) expression evaluation.
package cpu
