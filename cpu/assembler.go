// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":        "0",
	"PROGRAM_START": fmt.Sprintf("%#x", memory.PROGRAM_START),
	"MEMORY_SIZE":   fmt.Sprintf("%#x", memory.SIZE),
	"FLAG_REGISTER": fmt.Sprintf("V%X", FLAG_REGISTER),
}

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var (
	reRegister   = regexp.MustCompile(`^[vV][0-9a-fA-F]$`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	reParen      = regexp.MustCompile(`\$\([^\$]*\)`)
)

// mnemonics are the known instruction names.
var mnemonics = map[string]bool{
	"CLS": true, "RET": true, "JP": true, "CALL": true,
	"SE": true, "SNE": true, "LD": true, "ADD": true,
	"OR": true, "AND": true, "XOR": true, "SUB": true,
	"SUBN": true, "SHR": true, "SHL": true, "RND": true,
	"DRW": true, "DW": true,
}

// argClass classifies an operand word for instruction form selection.
func argClass(word string) string {
	if reRegister.MatchString(word) {
		return "V"
	}

	upper := strings.ToUpper(word)
	switch upper {
	case "I", "[I]", "DT", "ST", "F", "B":
		return upper
	}

	return "#"
}

// register returns the index of a Vx register name.
func register(word string) (x uint8, err error) {
	if !reRegister.MatchString(word) {
		err = ErrRegisterInvalid
		return
	}

	value, _ := strconv.ParseUint(word[1:], 16, 8)
	x = uint8(value)
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// fit checks a value against an operand field maximum. Negative values
// down to -(max+1)/2 are stored as two's complement.
func fit(value int64, max uint32) (field uint32, err error) {
	if value < 0 && value >= -(int64(max)/2)-1 {
		value += int64(max) + 1
	}

	if value < 0 || value > int64(max) {
		err = ErrValueRange{Value: value, Max: max}
		return
	}

	field = uint32(value)
	return
}

// immediate returns a value fitted to an operand field.
func (asm *Assembler) immediate(word string, max uint32) (field uint32, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	return fit(value, max)
}

// address returns a 12-bit address, or the label to link it to.
func (asm *Assembler) address(word string) (addr uint16, label string, err error) {
	value, err := asm.valueOf(word)
	if err == nil {
		var field uint32
		field, err = fit(value, memory.MAX_ADDRESS)
		addr = uint16(field)
		return
	}

	if !reIdentifier.MatchString(word) {
		return
	}

	err = nil
	label = word
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var num int64
		num, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(num)
	}
	for key, addr := range asm.Label {
		if reIdentifier.MatchString(key) && !strings.Contains(key, ".") {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// split breaks a line into words on spaces, tabs and commas.
func split(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line into words, handling expressions,
// equates, labels and macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = split(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reIdentifier.MatchString(label) {
			err = ErrOperandInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			// '@' makes labels local to each expansion.
			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddress gets the load address of the next opcode.
func (asm *Assembler) currentAddress() int {
	if len(asm.Opcode) == 0 {
		return memory.PROGRAM_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Address + len(last.Data)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.expansions = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := split(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		addr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}
		err = op.link(addr)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		address := asm.currentAddress()
		if address+len(data) > memory.SIZE {
			err = ErrProgramTooLarge
			return
		}
		opcode := Opcode{LineNo: lineno, Address: address, Words: initial_words, Data: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	switch words[0] {
	case ".byte":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.immediate(word, 0xff)
			if err != nil {
				return
			}
			data = append(data, byte(value))
		}
		return
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.immediate(word, 0xffff)
			if err != nil {
				return
			}
			data = append(data, byte(value>>8), byte(value))
		}
		return
	}

	var op Operation
	op, label, err = asm.parseOperation(strings.ToUpper(words[0]), words[1:])
	if err != nil {
		return
	}

	word := op.Encode()
	data = []byte{byte(word >> 8), byte(word)}

	return
}

// parseOperation selects the instruction form from the mnemonic and the
// classes of its operands.
func (asm *Assembler) parseOperation(mnemonic string, args []string) (op Operation, label string, err error) {
	class := make([]string, len(args))
	for n, arg := range args {
		class[n] = argClass(arg)
	}
	form := strings.TrimSpace(mnemonic + " " + strings.Join(class, ","))

	// Operand parsing helpers, by position.
	reg := func(n int) (x uint8) {
		if err != nil {
			return
		}
		x, err = register(args[n])
		return
	}
	imm := func(n int, max uint32) (value uint32) {
		if err != nil {
			return
		}
		value, err = asm.immediate(args[n], max)
		return
	}
	addr := func(n int) (value uint16) {
		if err != nil {
			return
		}
		value, label, err = asm.address(args[n])
		return
	}

	switch form {
	case "CLS":
		op = Operation{Kind: OP_CLEAR}
	case "RET":
		op = Operation{Kind: OP_RETURN}
	case "JP #":
		op = Operation{Kind: OP_JUMP, Addr: addr(0)}
	case "JP V,#":
		if reg(0) != 0 {
			err = ErrRegisterInvalid
			return
		}
		op = Operation{Kind: OP_JUMP_ADD_V0, Addr: addr(1)}
	case "CALL #":
		op = Operation{Kind: OP_CALL, Addr: addr(0)}
	case "SE V,#":
		op = Operation{Kind: OP_SKIP_EQ_IMM, X: reg(0), Byte: uint8(imm(1, 0xff))}
	case "SE V,V":
		op = Operation{Kind: OP_SKIP_EQ_REG, X: reg(0), Y: reg(1)}
	case "SNE V,#":
		op = Operation{Kind: OP_SKIP_NE_IMM, X: reg(0), Byte: uint8(imm(1, 0xff))}
	case "SNE V,V":
		op = Operation{Kind: OP_SKIP_NE_REG, X: reg(0), Y: reg(1)}
	case "LD V,#":
		op = Operation{Kind: OP_SET_IMM, X: reg(0), Byte: uint8(imm(1, 0xff))}
	case "LD V,V":
		op = Operation{Kind: OP_COPY, X: reg(0), Y: reg(1)}
	case "LD I,#":
		op = Operation{Kind: OP_SET_INDEX, Addr: addr(1)}
	case "LD V,DT":
		op = Operation{Kind: OP_LOAD_DELAY, X: reg(0)}
	case "LD DT,V":
		op = Operation{Kind: OP_SET_DELAY, X: reg(1)}
	case "LD ST,V":
		op = Operation{Kind: OP_SET_SOUND, X: reg(1)}
	case "LD F,V":
		op = Operation{Kind: OP_LOAD_GLYPH, X: reg(1)}
	case "LD B,V":
		op = Operation{Kind: OP_STORE_BCD, X: reg(1)}
	case "LD [I],V":
		op = Operation{Kind: OP_STORE_REGS, X: reg(1)}
	case "LD V,[I]":
		op = Operation{Kind: OP_LOAD_REGS, X: reg(0)}
	case "ADD V,#":
		op = Operation{Kind: OP_ADD_IMM, X: reg(0), Byte: uint8(imm(1, 0xff))}
	case "ADD V,V":
		op = Operation{Kind: OP_ADD_CARRY, X: reg(0), Y: reg(1)}
	case "ADD I,V":
		op = Operation{Kind: OP_ADD_TO_INDEX, X: reg(1)}
	case "OR V,V":
		op = Operation{Kind: OP_OR, X: reg(0), Y: reg(1)}
	case "AND V,V":
		op = Operation{Kind: OP_AND, X: reg(0), Y: reg(1)}
	case "XOR V,V":
		op = Operation{Kind: OP_XOR, X: reg(0), Y: reg(1)}
	case "SUB V,V":
		op = Operation{Kind: OP_SUB_BORROW, X: reg(0), Y: reg(1)}
	case "SUBN V,V":
		op = Operation{Kind: OP_SUBN_BORROW, X: reg(0), Y: reg(1)}
	case "SHR V,V":
		op = Operation{Kind: OP_SHIFT_RIGHT, X: reg(0), Y: reg(1)}
	case "SHR V":
		op = Operation{Kind: OP_SHIFT_RIGHT, X: reg(0), Y: reg(0)}
	case "SHL V,V":
		op = Operation{Kind: OP_SHIFT_LEFT, X: reg(0), Y: reg(1)}
	case "SHL V":
		op = Operation{Kind: OP_SHIFT_LEFT, X: reg(0), Y: reg(0)}
	case "RND V,#":
		op = Operation{Kind: OP_RANDOM, X: reg(0), Byte: uint8(imm(1, 0xff))}
	case "DRW V,V,#":
		op = Operation{Kind: OP_DRAW, X: reg(0), Y: reg(1), N: uint8(imm(2, 0xf))}
	case "DW #":
		op = Decode(uint16(imm(0, 0xffff)))
	default:
		switch {
		case !mnemonics[mnemonic]:
			err = ErrOpcodeInvalid
		case len(args) == 0:
			err = ErrOpcodeValueMissing
		default:
			err = ErrOperandInvalid
		}
	}

	return
}
