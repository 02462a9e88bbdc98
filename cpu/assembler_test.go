package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program ...string) (prog *Program) {
	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Opcodes))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%#x", RESET_PC), asm.Equate["RESET_PC"])
	assert.Equal(fmt.Sprintf("%#x", IO_BASE), asm.Equate["IO_BASE"])
	assert.Equal(fmt.Sprintf("%#x", MEMORY_SIZE), asm.Equate["MEMORY_SIZE"])
}

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".equ COUNT 3",
		"start:",
		"  ld b, COUNT     ; 0x100",
		"loop: dec b       ; 0x102",
		"  jr nz, loop     ; 0x103",
		"  jp start        ; 0x105",
		"  .db 'A', -1     ; 0x108",
		"  .dw loop, 0x1234 ; 0x10a",
		"  ld (hl), $7f    ; 0x10e",
		"  stop",
	)

	expected := []byte{
		0x06, 0x03,
		0x05,
		0x20, 0xfd,
		0xc3, 0x00, 0x01,
		0x41, 0xff,
		0x02, 0x01, 0x34, 0x12,
		0x36, 0x7f,
		0x10, 0x00,
	}

	image := prog.Binary()
	assert.Equal(0x100+len(expected), len(image))
	assert.Equal(expected, image[0x100:])

	dbg := prog.Debug(0x104)
	assert.Equal(5, dbg.LineNo)
	assert.Equal(0x103, dbg.Addr)
}

func TestAssemblerCase(t *testing.T) {
	assert := assert.New(t)

	upper := assemble(t, "LD A,(DE)", "ADD A,B", "SUB (HL)", "LD (C),A", "JP (HL)")
	lower := assemble(t, "ld a, (de)", "add a, b", "sub ( hl )", "ld (c), a", "jp (hl)")

	assert.Equal([]byte{0x1a, 0x80, 0x96, 0xe2, 0xe9}, upper.Binary()[0x100:])
	assert.Equal(upper.Binary(), lower.Binary())
}

func TestAssemblerMacro(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		".macro ldi reg, value",
		"  ld reg, value",
		".endm",
		".macro spin count",
		"  ld b, count",
		"@loop: dec b",
		"  jr nz, @loop",
		".endm",
		"  ldi a, 5",
		"  spin 2",
		"  spin 3",
	)

	expected := []byte{
		0x3e, 0x05,
		0x06, 0x02, 0x05, 0x20, 0xfd,
		0x06, 0x03, 0x05, 0x20, 0xfd,
	}
	assert.Equal(expected, prog.Binary()[0x100:])
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x10")

	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"  ld a, $(BASE * 2 + 1)",
		"  ld hl, $(IO_BASE + 0x20)",
		"  ld c, ~0x0f",
	}, "\n")))
	assert.NoError(err)

	assert.Equal([]byte{0x3e, 0x21, 0x21, 0x20, 0xff, 0x0e, 0xf0}, prog.Binary()[0x100:])
}

func TestAssemblerWordRange(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t,
		"  ld hl, -32768",
		"  jp 0xffff",
		"  .dw -1, 0x8000",
	)

	expected := []byte{
		0x21, 0x00, 0x80,
		0xc3, 0xff, 0xff,
		0xff, 0xff, 0x00, 0x80,
	}
	assert.Equal(expected, prog.Binary()[0x100:])
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		err     error
		lineno  int
	}){
		{"instruction", []string{"nop", "frob a"}, ErrInstructionInvalid, 2},
		{"operand", []string{"ld a"}, ErrOperandInvalid, 1},
		{"operands", []string{"ld q, 1"}, ErrOperandInvalid, 1},
		{"byte", []string{"ld a, 300"}, ErrRangeByte, 1},
		{"word", []string{"jp 0x12345"}, ErrRangeWord, 1},
		{"word_negative", []string{"nop", "ld hl, -32769"}, ErrRangeWord, 2},
		{"data_word", []string{".dw 0x10000"}, ErrRangeWord, 1},
		{"data_words", []string{".dw 1, 2", ".dw 3, 0x12345"}, ErrRangeWord, 2},
		{"relative", []string{"jr far", ".org 0x200", "far: nop"}, ErrRangeRelative, 1},
		{"relative_value", []string{"jr 0x300"}, ErrRangeRelative, 1},
		{"label_dup", []string{"here: nop", "here: nop"}, ErrLabelDuplicate, 2},
		{"equ_dup", []string{".equ A 1", ".equ A 2"}, ErrEquateDuplicate, 2},
		{"equ_syntax", []string{".equ A"}, ErrEquateSyntax, 1},
		{"org", []string{".org 0x10000"}, ErrOriginSyntax, 1},
		{"data", []string{".db"}, ErrDataSyntax, 1},
		{"macro_nest", []string{".macro a", ".macro b"}, ErrMacroNesting, 2},
		{"macro_lonely", []string{".macro a", "nop"}, ErrMacroLonely, 2},
		{"endm_lonely", []string{"nop", ".endm"}, ErrMacroLonelyEndm, 2},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.True(errors.Is(err, entry.err), "%v: %v", entry.name, err)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerLabelMissing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := asm.Parse(strings.NewReader("nop\njp nowhere\n"))

	var missing ErrLabelMissing
	assert.True(errors.As(err, &missing))
	assert.Equal(ErrLabelMissing("nowhere"), missing)

	var syntax *ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(2, syntax.LineNo)
}
