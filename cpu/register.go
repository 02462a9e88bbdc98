package cpu

import (
	"fmt"
)

// Pair is a 16-bit register that is also addressable as two independent
// 8-bit halves. Both views share the same storage word.
type Pair struct {
	word uint16
}

// Word returns the 16-bit value of the pair.
func (p *Pair) Word() uint16 {
	return p.word
}

// SetWord sets the 16-bit value of the pair.
func (p *Pair) SetWord(value uint16) {
	p.word = value
}

// High returns the upper 8 bits of the pair.
func (p *Pair) High() byte {
	return byte(p.word >> 8)
}

// SetHigh replaces the upper 8 bits of the pair.
func (p *Pair) SetHigh(value byte) {
	p.word = (p.word & 0x00ff) | (uint16(value) << 8)
}

// Low returns the lower 8 bits of the pair.
func (p *Pair) Low() byte {
	return byte(p.word & 0xff)
}

// SetLow replaces the lower 8 bits of the pair.
func (p *Pair) SetLow(value byte) {
	p.word = (p.word & 0xff00) | uint16(value)
}

// Reg8 selects an 8-bit register, in instruction encoding order.
type Reg8 int

const (
	REG_B = Reg8(0) // B
	REG_C = Reg8(1) // C
	REG_D = Reg8(2) // D
	REG_E = Reg8(3) // E
	REG_H = Reg8(4) // H
	REG_L = Reg8(5) // L
	REG_M = Reg8(6) // (HL)
	REG_A = Reg8(7) // A
)

var reg8Names = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func (r Reg8) String() string {
	if r < 0 || int(r) >= len(reg8Names) {
		return fmt.Sprintf("Reg8(%d)", int(r))
	}
	return reg8Names[r]
}

// Reg16 selects a 16-bit register, in instruction encoding order.
type Reg16 int

const (
	REG_BC = Reg16(0) // BC
	REG_DE = Reg16(1) // DE
	REG_HL = Reg16(2) // HL
	REG_SP = Reg16(3) // SP
)

var reg16Names = [...]string{"BC", "DE", "HL", "SP"}

func (r Reg16) String() string {
	if r < 0 || int(r) >= len(reg16Names) {
		return fmt.Sprintf("Reg16(%d)", int(r))
	}
	return reg16Names[r]
}

const (
	RESET_PC = uint16(0x0100) // Program counter after a reset.
	RESET_SP = uint16(0x0000) // Stack pointer after a reset.
)

// Registers is the register file.
type Registers struct {
	A  byte   // Accumulator.
	BC Pair   // B (high) and C (low).
	DE Pair   // D (high) and E (low).
	HL Pair   // H (high) and L (low); also the memory pointer.
	SP uint16 // Stack pointer.
	PC uint16 // Program counter.
}

// Reset sets the registers to their power-on values.
func (r *Registers) Reset() {
	*r = Registers{
		PC: RESET_PC,
		SP: RESET_SP,
	}
}

// Get8 returns the 8-bit register reg.
// REG_M is a memory operand, and must be resolved by the caller.
func (r *Registers) Get8(reg Reg8) byte {
	switch reg {
	case REG_B:
		return r.BC.High()
	case REG_C:
		return r.BC.Low()
	case REG_D:
		return r.DE.High()
	case REG_E:
		return r.DE.Low()
	case REG_H:
		return r.HL.High()
	case REG_L:
		return r.HL.Low()
	case REG_A:
		return r.A
	}
	panic(fmt.Sprintf("register %v is not in the register file", reg))
}

// Set8 sets the 8-bit register reg.
// REG_M is a memory operand, and must be resolved by the caller.
func (r *Registers) Set8(reg Reg8, value byte) {
	switch reg {
	case REG_B:
		r.BC.SetHigh(value)
	case REG_C:
		r.BC.SetLow(value)
	case REG_D:
		r.DE.SetHigh(value)
	case REG_E:
		r.DE.SetLow(value)
	case REG_H:
		r.HL.SetHigh(value)
	case REG_L:
		r.HL.SetLow(value)
	case REG_A:
		r.A = value
	default:
		panic(fmt.Sprintf("register %v is not in the register file", reg))
	}
}

// Get16 returns the 16-bit register reg.
func (r *Registers) Get16(reg Reg16) uint16 {
	switch reg {
	case REG_BC:
		return r.BC.Word()
	case REG_DE:
		return r.DE.Word()
	case REG_HL:
		return r.HL.Word()
	case REG_SP:
		return r.SP
	}
	panic(fmt.Sprintf("register %v is not in the register file", reg))
}

// Set16 sets the 16-bit register reg.
func (r *Registers) Set16(reg Reg16, value uint16) {
	switch reg {
	case REG_BC:
		r.BC.SetWord(value)
	case REG_DE:
		r.DE.SetWord(value)
	case REG_HL:
		r.HL.SetWord(value)
	case REG_SP:
		r.SP = value
	default:
		panic(fmt.Sprintf("register %v is not in the register file", reg))
	}
}

// String returns the register file as text.
func (r *Registers) String() string {
	return fmt.Sprintf("A=%02X BC=%04X DE=%04X HL=%04X SP=%04X PC=%04X",
		r.A, r.BC.Word(), r.DE.Word(), r.HL.Word(), r.SP, r.PC)
}
