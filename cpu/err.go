package cpu

import (
	"errors"

	"github.com/ezrec/acc8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted = errors.New(f("cpu halted"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOriginSyntax       = errors.New(f(".org syntax"))
	ErrDataSyntax         = errors.New(f("data syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOperandInvalid     = errors.New(f("operand invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrRangeByte          = errors.New(f("value out of byte range"))
	ErrRangeWord          = errors.New(f("value out of word range"))
	ErrRangeRelative      = errors.New(f("relative jump out of range"))
)

// ErrUnimplemented is the halt reason for an opcode without a handler.
type ErrUnimplemented struct {
	Opcode byte   // Opcode that was fetched.
	Pc     uint16 // Address the opcode was fetched from.
}

func (eu ErrUnimplemented) Error() string {
	return f("unimplemented opcode 0x%02X at 0x%04X", eu.Opcode, eu.Pc)
}

func (eu ErrUnimplemented) Is(err error) (ok bool) {
	_, ok = err.(ErrUnimplemented)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
