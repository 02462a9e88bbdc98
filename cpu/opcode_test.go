package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpcodeTable(t *testing.T) {
	assert := assert.New(t)

	mapped := 0
	for opcode := range 256 {
		ins := Lookup(byte(opcode))
		assert.Equal(byte(opcode), ins.Opcode)
		if ins.Mapped() {
			mapped++
		}
	}

	assert.False(Lookup(0x76).Mapped())
	assert.True(Lookup(0xdd).Mapped())
	assert.Equal("", Lookup(0xdd).Syntax)
	assert.Equal(mapped-5, len(Instructions()))

	ins := Lookup(0xc3)
	assert.Equal("JP nn", ins.Syntax)
	assert.Equal("JP", ins.Mnemonic())
	assert.Equal(3, ins.Size())
	assert.Equal(2, Lookup(0x10).Size())
}

func TestOpcodeTableCopy(t *testing.T) {
	assert := assert.New(t)

	ins := Lookup(0xc3)
	ins.Syntax = "XX"
	ins.Operand = OPERAND_NONE
	assert.Equal("JP nn", Lookup(0xc3).Syntax)
	assert.Equal(OPERAND_WORD, Lookup(0xc3).Operand)

	list := Instructions()
	syntax := list[0].Syntax
	list[0].Syntax = "XX"
	assert.Equal(syntax, Instructions()[0].Syntax)

	mem := &Memory{}
	copy(mem[:], []byte{0xc3, 0x34, 0x12})
	text, size := Disassemble(mem, 0)
	assert.Equal("JP $1234", text)
	assert.Equal(3, size)
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program []byte
		text    string
		size    int
	}){
		{[]byte{0x00}, "NOP", 1},
		{[]byte{0x06, 0x12}, "LD B,$12", 2},
		{[]byte{0x21, 0x34, 0x12}, "LD HL,$1234", 3},
		{[]byte{0x77}, "LD (HL),A", 1},
		{[]byte{0x36, 0xff}, "LD (HL),$FF", 2},
		{[]byte{0x18, 0xfe}, "JR $0100", 2},
		{[]byte{0x38, 0x10}, "JR C,$0112", 2},
		{[]byte{0xcc, 0x00, 0x02}, "CALL Z,$0200", 3},
		{[]byte{0xd6, 0x01}, "SUB $01", 2},
		{[]byte{0xce, 0x01}, "ADC A,$01", 2},
		{[]byte{0x10, 0x00}, "STOP", 2},
		{[]byte{0x76}, ".db $76", 1},
		{[]byte{0xed}, ".db $ED", 1},
	}

	for _, entry := range table {
		mem := &Memory{}
		copy(mem[RESET_PC:], entry.program)

		text, size := Disassemble(mem, RESET_PC)
		assert.Equal(entry.text, text)
		assert.Equal(entry.size, size, entry.text)
	}
}

// Every instruction must assemble from its own disassembly.
func TestDisassembleAssemble(t *testing.T) {
	assert := assert.New(t)

	for _, ins := range Instructions() {
		mem := &Memory{}
		mem.WriteByte(RESET_PC, ins.Opcode)
		switch ins.Operand {
		case OPERAND_BYTE:
			mem.WriteByte(RESET_PC+1, 0x5a)
		case OPERAND_WORD:
			mem.WriteWord(RESET_PC+1, 0x1234)
		case OPERAND_REL:
			mem.WriteByte(RESET_PC+1, 0x10)
		}

		text, size := Disassemble(mem, RESET_PC)
		assert.Equal(ins.Size(), size, text)

		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(text))
		if !assert.NoError(err, text) {
			continue
		}

		assert.Equal(mem.Slice(RESET_PC, RESET_PC+uint16(size)), prog.Binary()[RESET_PC:], text)
	}
}
