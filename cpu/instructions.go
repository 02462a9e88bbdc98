package cpu

const (
	IO_BASE = uint16(0xff00) // Base of the memory-mapped I/O page.
)

// unimplemented is the handler for every opcode without an instruction.
func unimplemented(cpu *Cpu) error {
	pc := cpu.PC - 1
	return ErrUnimplemented{Opcode: cpu.Memory.ReadByte(pc), Pc: pc}
}

func nop(cpu *Cpu) error {
	return nil
}

// stop skips its padding byte.
func stop(cpu *Cpu) error {
	cpu.PC++
	return nil
}

// fetchByte reads the operand byte at PC and advances PC past it.
func (cpu *Cpu) fetchByte() (value byte) {
	value = cpu.Memory.ReadByte(cpu.PC)
	cpu.PC++
	return
}

// fetchWord reads the operand word at PC and advances PC past it.
func (cpu *Cpu) fetchWord() (value uint16) {
	value = cpu.Memory.ReadWord(cpu.PC)
	cpu.PC += 2
	return
}

// get8 reads an 8-bit operand, resolving REG_M through HL.
func (cpu *Cpu) get8(reg Reg8) byte {
	if reg == REG_M {
		return cpu.Memory.ReadByte(cpu.HL.Word())
	}
	return cpu.Registers.Get8(reg)
}

// set8 writes an 8-bit operand, resolving REG_M through HL.
func (cpu *Cpu) set8(reg Reg8, value byte) {
	if reg == REG_M {
		cpu.Memory.WriteByte(cpu.HL.Word(), value)
		return
	}
	cpu.Registers.Set8(reg, value)
}

// Data movement.

func load(dst, src Reg8) handler {
	return func(cpu *Cpu) error {
		cpu.set8(dst, cpu.get8(src))
		return nil
	}
}

func loadImmediate(dst Reg8) handler {
	return func(cpu *Cpu) error {
		cpu.set8(dst, cpu.fetchByte())
		return nil
	}
}

func loadWordImmediate(dst Reg16) handler {
	return func(cpu *Cpu) error {
		cpu.Set16(dst, cpu.fetchWord())
		return nil
	}
}

func loadStackPointer(cpu *Cpu) error {
	cpu.SP = cpu.HL.Word()
	return nil
}

func loadIndirect(ptr Reg16) handler {
	return func(cpu *Cpu) error {
		cpu.A = cpu.Memory.ReadByte(cpu.Get16(ptr))
		return nil
	}
}

func storeIndirect(ptr Reg16) handler {
	return func(cpu *Cpu) error {
		cpu.Memory.WriteByte(cpu.Get16(ptr), cpu.A)
		return nil
	}
}

// storeHigh writes A into the I/O page at IO_BASE + C.
func storeHigh(cpu *Cpu) error {
	cpu.Memory.WriteByte(IO_BASE+uint16(cpu.BC.Low()), cpu.A)
	return nil
}

// Arithmetic and logic.

func aluRegister(exec func(cpu *Cpu, src byte), src Reg8) handler {
	return func(cpu *Cpu) error {
		exec(cpu, cpu.get8(src))
		return nil
	}
}

func aluImmediate(exec func(cpu *Cpu, src byte)) handler {
	return func(cpu *Cpu) error {
		exec(cpu, cpu.fetchByte())
		return nil
	}
}

// add returns dst + src (+ carry), setting all flags.
func (cpu *Cpu) add(dst, src byte, withCarry bool) (result byte) {
	var cin uint16
	if withCarry && cpu.Flags.Carry {
		cin = 1
	}

	sum := uint16(dst) + uint16(src) + cin
	result = byte(sum)

	cpu.Flags.Carry = sum > 0xff
	cpu.Flags.AuxCarry = uint16(dst&0xf)+uint16(src&0xf)+cin > 0xf
	cpu.Flags.setResult(result)

	return
}

// sub returns dst - src (- carry), setting all flags.
func (cpu *Cpu) sub(dst, src byte, withBorrow bool) (result byte) {
	var cin uint16
	if withBorrow && cpu.Flags.Carry {
		cin = 1
	}

	toSub := uint16(src) + cin
	result = byte(uint16(dst) - toSub)
	borrow := uint16(dst) < toSub

	cpu.Flags.setResult(result)
	cpu.Flags.Carry = borrow
	cpu.Flags.AuxCarry = uint16(dst&0xf) < uint16(src&0xf)+cin
	cpu.Flags.Sign = borrow || (result&0x80) != 0

	return
}

// compare sets the flags of dst - src, discarding the result.
func (cpu *Cpu) compare(dst, src byte) {
	cpu.sub(dst, src, false)
}

func (cpu *Cpu) logic(result byte) byte {
	cpu.Flags.setResult(result)
	cpu.Flags.Carry = false
	cpu.Flags.AuxCarry = false
	return result
}

func (cpu *Cpu) and(dst, src byte) byte {
	return cpu.logic(dst & src)
}

func (cpu *Cpu) or(dst, src byte) byte {
	return cpu.logic(dst | src)
}

func (cpu *Cpu) xor(dst, src byte) byte {
	return cpu.logic(dst ^ src)
}

// inc returns value + 1. Carry is preserved.
func (cpu *Cpu) inc(value byte) (result byte) {
	result = value + 1
	carry := cpu.Flags.Carry
	cpu.Flags.setResult(result)
	cpu.Flags.AuxCarry = (value & 0xf) == 0xf
	cpu.Flags.Carry = carry
	return
}

// dec returns value - 1. Carry is preserved, sign is always set.
func (cpu *Cpu) dec(value byte) (result byte) {
	result = value - 1
	carry := cpu.Flags.Carry
	cpu.Flags.setResult(result)
	cpu.Flags.AuxCarry = (value & 0xf) == 0x0
	cpu.Flags.Sign = true
	cpu.Flags.Carry = carry
	return
}

func increment(reg Reg8) handler {
	return func(cpu *Cpu) error {
		cpu.set8(reg, cpu.inc(cpu.get8(reg)))
		return nil
	}
}

func decrement(reg Reg8) handler {
	return func(cpu *Cpu) error {
		cpu.set8(reg, cpu.dec(cpu.get8(reg)))
		return nil
	}
}

func incrementWord(reg Reg16) handler {
	return func(cpu *Cpu) error {
		cpu.Set16(reg, cpu.Get16(reg)+1)
		return nil
	}
}

func decrementWord(reg Reg16) handler {
	return func(cpu *Cpu) error {
		cpu.Set16(reg, cpu.Get16(reg)-1)
		return nil
	}
}

// Control flow.

// taken is true if a branch on cond (expecting want) should be taken.
func (cpu *Cpu) taken(cond Cond, want bool) bool {
	return cond == COND_NONE || cpu.Flags.Evaluate(cond) == want
}

// jump reads the target, then branches. The operand is consumed either way.
func jump(cond Cond, want bool) handler {
	return func(cpu *Cpu) error {
		target := cpu.fetchWord()
		if cpu.taken(cond, want) {
			cpu.PC = target
		}
		return nil
	}
}

func jumpIndirect(cpu *Cpu) error {
	cpu.PC = cpu.HL.Word()
	return nil
}

// jumpRelative displaces PC from the operand, then steps past the operand.
func jumpRelative(cond Cond, want bool) handler {
	return func(cpu *Cpu) error {
		disp := int8(cpu.Memory.ReadByte(cpu.PC))
		if cpu.taken(cond, want) {
			cpu.PC += uint16(disp)
		}
		cpu.PC++
		return nil
	}
}

// call pushes the address following the operand, then branches.
func call(cond Cond, want bool) handler {
	return func(cpu *Cpu) error {
		target := cpu.fetchWord()
		if cpu.taken(cond, want) {
			cpu.Push(cpu.PC)
			cpu.PC = target
		}
		return nil
	}
}

func ret(cond Cond, want bool) handler {
	return func(cpu *Cpu) error {
		if cpu.taken(cond, want) {
			cpu.PC = cpu.Pop()
		}
		return nil
	}
}

func push(reg Reg16) handler {
	return func(cpu *Cpu) error {
		cpu.Push(cpu.Get16(reg))
		return nil
	}
}

func pop(reg Reg16) handler {
	return func(cpu *Cpu) error {
		cpu.Set16(reg, cpu.Pop())
		return nil
	}
}
