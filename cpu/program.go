package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int      // Source line number.
	Addr      int      // Address of the first byte.
	Words     []string // Source words.
	Bytes     []byte   // Encoded bytes.
	LinkLabel string   // Label to resolve into the trailing operand, if any.
	Link      Operand  // Encoding of the linked operand.
}

// Program is an assembled list of opcodes.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode that covers an address.
type Debug struct {
	*Opcode
	Index int // Offset of the address within the opcode's bytes.
}

// Debug returns the opcode covering addr. Debug.Opcode is nil if none does.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(addr) - op.Addr,
			}
			break
		}
	}

	return
}

// Binary returns a raw memory image, starting at address 0, that covers
// every assembled byte. Gaps are filled with NOP (0x00).
func (prog *Program) Binary() (image []byte) {
	var size int
	for _, op := range prog.Opcodes {
		size = max(size, op.Addr+len(op.Bytes))
	}
	size = min(size, MEMORY_SIZE)

	if size == 0 {
		return
	}

	image = make([]byte, size)
	for addr, value := range prog.Bytes() {
		if int(addr) < size {
			image[addr] = value
		}
	}

	return
}

// Bytes returns an iterator over every assembled byte and its address.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(addr uint16, value byte) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(uint16(op.Addr+n), value) {
					return
				}
			}
		}
	}
}
