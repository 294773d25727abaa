package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrStackEmpty = errors.New(f("stack empty"))
	ErrStackFull  = errors.New(f("stack full"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrOperandInvalid     = errors.New(f("operand invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrProgramTooLarge    = errors.New(f("program too large"))
	ErrMacroSyntax        = errors.New(f("macro syntax"))
	ErrMacroDuplicate     = errors.New(f("macro duplicated"))
	ErrMacroNesting       = errors.New(f("macro nesting not allowed"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode identifies the operation that failed to execute.
type ErrOpcode Operation

func (eo ErrOpcode) Error() string {
	op := Operation(eo)
	return f("bad opcode 0x%04x %v", op.Encode(), op.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err *ErrMacro) Error() string {
	return f("macro %v, line %d: %v", err.Macro, err.Line, err.Err)
}

func (err *ErrMacro) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrValueRange is a value too large for its operand field.
type ErrValueRange struct {
	Value int64
	Max   uint32
}

func (err ErrValueRange) Error() string {
	return f("%d is outside of 0x0-0x%x", err.Value, err.Max)
}
