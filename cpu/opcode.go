package cpu

import (
	"fmt"
	"strings"
)

// Operand is the kind of operand bytes that follow an opcode.
type Operand int

const (
	OPERAND_NONE = Operand(0) // no operand
	OPERAND_BYTE = Operand(1) // n: 8-bit immediate
	OPERAND_WORD = Operand(2) // nn: 16-bit little-endian immediate
	OPERAND_REL  = Operand(3) // e: signed 8-bit displacement
	OPERAND_PAD  = Operand(4) // ignored padding byte
)

// Size returns the number of operand bytes.
func (op Operand) Size() int {
	switch op {
	case OPERAND_BYTE, OPERAND_REL, OPERAND_PAD:
		return 1
	case OPERAND_WORD:
		return 2
	}
	return 0
}

// placeholder returns the token that stands for the operand in syntax text.
func (op Operand) placeholder() string {
	switch op {
	case OPERAND_BYTE:
		return "n"
	case OPERAND_WORD:
		return "nn"
	case OPERAND_REL:
		return "e"
	}
	return ""
}

// handler executes an instruction. PC has already been advanced past
// the opcode; the handler advances it past any operand bytes it reads.
type handler func(cpu *Cpu) error

// Instruction describes a single opcode.
type Instruction struct {
	Opcode  byte    // Opcode byte.
	Syntax  string  // Assembler syntax, with the operand as n, nn or e.
	Operand Operand // Operand kind following the opcode.

	mapped bool
	exec   handler
}

// Mapped is true if the opcode has a handler.
func (ins Instruction) Mapped() bool {
	return ins.mapped
}

// Size is the encoded length of the instruction in bytes.
func (ins Instruction) Size() int {
	return 1 + ins.Operand.Size()
}

// Mnemonic returns the first word of the syntax.
func (ins Instruction) Mnemonic() string {
	mnemonic, _, _ := strings.Cut(ins.Syntax, " ")
	return mnemonic
}

// instructionTable is the dispatch table, indexed by opcode.
var instructionTable [256]Instruction

// Lookup returns a copy of the instruction descriptor for an opcode.
func Lookup(opcode byte) Instruction {
	return instructionTable[opcode]
}

// Instructions returns copies of all mapped instructions with assembler syntax.
func Instructions() (list []Instruction) {
	for _, ins := range instructionTable {
		if ins.mapped && len(ins.Syntax) != 0 {
			list = append(list, ins)
		}
	}
	return
}

// Disassemble renders the instruction at addr, returning its text and size.
// Relative jumps are shown with their resolved target address.
func Disassemble(mem *Memory, addr uint16) (text string, size int) {
	ins := Lookup(mem.ReadByte(addr))
	size = ins.Size()

	if len(ins.Syntax) == 0 {
		text = fmt.Sprintf(".db $%02X", ins.Opcode)
		size = 1
		return
	}

	var value string
	switch ins.Operand {
	case OPERAND_BYTE:
		value = fmt.Sprintf("$%02X", mem.ReadByte(addr+1))
	case OPERAND_WORD:
		value = fmt.Sprintf("$%04X", mem.ReadWord(addr+1))
	case OPERAND_REL:
		disp := int8(mem.ReadByte(addr + 1))
		value = fmt.Sprintf("$%04X", addr+2+uint16(disp))
	default:
		text = ins.Syntax
		return
	}

	mnemonic, operands, _ := strings.Cut(ins.Syntax, " ")
	args := strings.Split(operands, ",")
	for n, arg := range args {
		if arg == ins.Operand.placeholder() {
			args[n] = value
		}
	}
	text = mnemonic + " " + strings.Join(args, ",")

	return
}

// condCodes are the branch conditions in encoding order: NZ, Z, NC, C.
var condCodes = [4]struct {
	name string
	cond Cond
	want bool
}{
	{"NZ", COND_ZERO, false},
	{"Z", COND_ZERO, true},
	{"NC", COND_CARRY, false},
	{"C", COND_CARRY, true},
}

// aluOps are the accumulator operations in encoding order.
var aluOps = [8]struct {
	syntax string
	exec   func(cpu *Cpu, src byte)
}{
	{"ADD A,", func(cpu *Cpu, src byte) { cpu.A = cpu.add(cpu.A, src, false) }},
	{"ADC A,", func(cpu *Cpu, src byte) { cpu.A = cpu.add(cpu.A, src, true) }},
	{"SUB ", func(cpu *Cpu, src byte) { cpu.A = cpu.sub(cpu.A, src, false) }},
	{"SBC A,", func(cpu *Cpu, src byte) { cpu.A = cpu.sub(cpu.A, src, true) }},
	{"AND ", func(cpu *Cpu, src byte) { cpu.A = cpu.and(cpu.A, src) }},
	{"XOR ", func(cpu *Cpu, src byte) { cpu.A = cpu.xor(cpu.A, src) }},
	{"OR ", func(cpu *Cpu, src byte) { cpu.A = cpu.or(cpu.A, src) }},
	{"CP ", func(cpu *Cpu, src byte) { cpu.compare(cpu.A, src) }},
}

// def installs an instruction in the dispatch table.
func def(opcode byte, syntax string, operand Operand, exec handler) {
	ins := &instructionTable[opcode]
	if ins.mapped {
		panic(fmt.Sprintf("opcode 0x%02x defined twice", opcode))
	}
	*ins = Instruction{
		Opcode:  opcode,
		Syntax:  syntax,
		Operand: operand,
		mapped:  true,
		exec:    exec,
	}
}

func init() {
	for n := range instructionTable {
		instructionTable[n] = Instruction{Opcode: byte(n), exec: unimplemented}
	}

	def(0x00, "NOP", OPERAND_NONE, nop)
	def(0x10, "STOP", OPERAND_PAD, stop)
	def(0xfb, "EI", OPERAND_NONE, nop)
	def(0xf3, "DI", OPERAND_NONE, nop)
	for _, opcode := range []byte{0xdd, 0xed, 0xe3, 0xf2, 0xf4} {
		def(opcode, "", OPERAND_NONE, nop)
	}

	// 16-bit loads and arithmetic.
	for rr := REG_BC; rr <= REG_SP; rr++ {
		row := byte(rr) << 4
		def(0x01+row, fmt.Sprintf("LD %v,nn", rr), OPERAND_WORD, loadWordImmediate(rr))
		def(0x03+row, fmt.Sprintf("INC %v", rr), OPERAND_NONE, incrementWord(rr))
		def(0x0b+row, fmt.Sprintf("DEC %v", rr), OPERAND_NONE, decrementWord(rr))
	}
	def(0xf9, "LD SP,HL", OPERAND_NONE, loadStackPointer)

	// 8-bit immediate loads, increment and decrement.
	for r := REG_B; r <= REG_A; r++ {
		row := byte(r) << 3
		def(0x04+row, fmt.Sprintf("INC %v", r), OPERAND_NONE, increment(r))
		def(0x05+row, fmt.Sprintf("DEC %v", r), OPERAND_NONE, decrement(r))
		def(0x06+row, fmt.Sprintf("LD %v,n", r), OPERAND_BYTE, loadImmediate(r))
	}

	// Register to register moves, including (HL) forms.
	for dst := REG_B; dst <= REG_A; dst++ {
		for src := REG_B; src <= REG_A; src++ {
			if dst == REG_M && src == REG_M {
				continue
			}
			def(0x40+byte(dst)<<3+byte(src), fmt.Sprintf("LD %v,%v", dst, src), OPERAND_NONE, load(dst, src))
		}
	}

	// Accumulator loads and stores through a pair pointer.
	def(0x0a, "LD A,(BC)", OPERAND_NONE, loadIndirect(REG_BC))
	def(0x1a, "LD A,(DE)", OPERAND_NONE, loadIndirect(REG_DE))
	def(0x02, "LD (BC),A", OPERAND_NONE, storeIndirect(REG_BC))
	def(0x12, "LD (DE),A", OPERAND_NONE, storeIndirect(REG_DE))
	def(0xe2, "LD (C),A", OPERAND_NONE, storeHigh)

	// Accumulator arithmetic and logic.
	for op, alu := range aluOps {
		row := byte(op) << 3
		for src := REG_B; src <= REG_A; src++ {
			def(0x80+row+byte(src), alu.syntax+src.String(), OPERAND_NONE, aluRegister(alu.exec, src))
		}
		def(0xc6+row, alu.syntax+"n", OPERAND_BYTE, aluImmediate(alu.exec))
	}

	// Control flow.
	def(0xc3, "JP nn", OPERAND_WORD, jump(COND_NONE, false))
	def(0xe9, "JP (HL)", OPERAND_NONE, jumpIndirect)
	def(0x18, "JR e", OPERAND_REL, jumpRelative(COND_NONE, false))
	def(0xcd, "CALL nn", OPERAND_WORD, call(COND_NONE, false))
	def(0xc9, "RET", OPERAND_NONE, ret(COND_NONE, false))
	for n, cc := range condCodes {
		row := byte(n) << 3
		def(0xc2+row, "JP "+cc.name+",nn", OPERAND_WORD, jump(cc.cond, cc.want))
		def(0x20+row, "JR "+cc.name+",e", OPERAND_REL, jumpRelative(cc.cond, cc.want))
		def(0xc4+row, "CALL "+cc.name+",nn", OPERAND_WORD, call(cc.cond, cc.want))
		def(0xc0+row, "RET "+cc.name, OPERAND_NONE, ret(cc.cond, cc.want))
	}

	// Stack.
	for rr := REG_BC; rr <= REG_HL; rr++ {
		row := byte(rr) << 4
		def(0xc5+row, fmt.Sprintf("PUSH %v", rr), OPERAND_NONE, push(rr))
		def(0xc1+row, fmt.Sprintf("POP %v", rr), OPERAND_NONE, pop(rr))
	}
}
