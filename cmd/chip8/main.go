// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/memory"
	"github.com/ezrec/chip8/translate"
)

// splitPath returns a file system and slash separated name for a host path.
func splitPath(name string) (dir string, file string) {
	if filepath.IsAbs(name) {
		return filepath.Dir(name), filepath.Base(name)
	}

	return ".", filepath.ToSlash(filepath.Clean(name))
}

// fontBaseOf range checks the -f flag before narrowing it to an address.
func fontBaseOf(value uint) (base uint16, err error) {
	if value > memory.PROGRAM_START-uint(len(memory.Glyph)) {
		err = memory.ErrFontBase
		return
	}

	base = uint16(value)
	return
}

func main() {
	var compile string
	var romfile string
	var save string
	var disasm bool
	var output string
	var scale int
	var fontBase uint
	var stackLimit int
	var seed int64
	var cycles int
	var perTimer int
	var lang string
	var verbose bool

	config := emulator.DefaultConfig()

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&romfile, "r", "", ".ch8 rom file to load")
	flag.StringVar(&save, "w", "", "Save program image to a .ch8 file, do not execute")
	flag.BoolVar(&disasm, "d", false, "Disassemble program image, do not execute")
	flag.StringVar(&output, "o", "-", "Display output, empty for none")
	flag.IntVar(&scale, "x", 1, "Display output scale")
	flag.UintVar(&fontBase, "f", uint(config.FontBase), "Glyph table base address")
	flag.IntVar(&stackLimit, "k", config.StackLimit, "Stack depth limit, 0 for unbounded (16 is conventional)")
	flag.Int64Var(&seed, "s", config.Seed, "Random seed")
	flag.IntVar(&cycles, "n", 0, "Cycle limit, 0 to run until halted")
	flag.IntVar(&perTimer, "t", 10, "Instructions per 60Hz timer tick")
	flag.StringVar(&lang, "l", "", "Message language override")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			log.Fatalf("%v: %v", lang, err)
		}
	}

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if perTimer <= 0 {
		log.Fatalf("%v: -t must be positive", os.Args[0])
	}

	base, err := fontBaseOf(fontBase)
	if err != nil {
		log.Fatalf("-f 0x%x: %v", fontBase, err)
	}
	config.FontBase = base
	config.StackLimit = stackLimit
	config.Seed = seed

	emu, err := emulator.NewEmulator(config)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	emu.Verbose = verbose

	prog := &cpu.Program{}
	rom := &io.Rom{}

	switch {
	case len(compile) != 0 && len(romfile) != 0:
		log.Fatalf("%v: -c and -r are exclusive", os.Args[0])
	case len(compile) != 0:
		// Assemble a new program.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := emu.Assembler()
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		rom.Data = prog.Binary()
	case len(romfile) != 0:
		dir, name := splitPath(romfile)
		rom, err = io.OpenRom(os.DirFS(dir), name)
		if err != nil {
			log.Fatalf("%v: %v", romfile, err)
		}
	default:
		log.Fatalf("%v: one of -c or -r is required", os.Args[0])
	}

	if len(save) != 0 {
		dir, name := splitPath(save)
		err = io.SaveRom(io.DirFS(dir), name, rom)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
	}

	if disasm {
		for address, word := range rom.Words() {
			line := fmt.Sprintf("%03X: %04X  %v", address, word, cpu.Decode(word))
			if dbg := prog.Debug(address); dbg.Opcode != nil && dbg.IsData() {
				line = fmt.Sprintf("%03X: %04X  ; data, line %d", address, word, dbg.LineNo)
			}
			fmt.Println(line)
		}
	}

	if len(save) != 0 || disasm {
		return
	}

	if len(prog.Opcodes) != 0 {
		err = emu.LoadProgram(prog)
	} else {
		err = emu.Reset()
		if err == nil {
			err = emu.Load(rom.Data)
		}
	}
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	var screen *io.Screen
	switch output {
	case "":
	case "-":
		screen = &io.Screen{Output: os.Stdout, Scale: scale}
	default:
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		screen = &io.Screen{Output: ouf, Scale: scale}
	}

	render := func() {
		if screen == nil || !emu.Cpu.Display.Dirty {
			return
		}
		err := screen.Render(emu.Cpu.Display)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	for done := false; !done; {
		limit := perTimer
		if cycles > 0 {
			limit = min(limit, cycles-emu.Ticks())
			if limit <= 0 {
				break
			}
		}

		_, done, err = emu.Run(limit)
		if err != nil {
			render()
			log.Fatalf("%v: %v", os.Args[0], err)
		}

		emu.DecrementTimers()
		render()
	}

	if verbose {
		log.Printf("%v: %d ticks, %d frames\n%v", os.Args[0], emu.Ticks(), screenFrames(screen), emu.Cpu)
	}
}

func screenFrames(screen *io.Screen) int {
	if screen == nil {
		return 0
	}

	return screen.Frames
}
