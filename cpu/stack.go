package cpu

// Push decrements SP by two and stores value at the new top of stack.
func (cpu *Cpu) Push(value uint16) {
	cpu.SP -= 2
	cpu.Memory.WriteWord(cpu.SP, value)
}

// Pop loads the word at the top of stack and increments SP by two.
func (cpu *Cpu) Pop() (value uint16) {
	value = cpu.Memory.ReadWord(cpu.SP)
	cpu.SP += 2
	return
}

// Peek returns the word at the top of stack without moving SP.
func (cpu *Cpu) Peek() uint16 {
	return cpu.Memory.ReadWord(cpu.SP)
}
