package cpu

const (
	MEMORY_SIZE = 1 << 16 // Size of the address space in bytes.
)

// Memory is the flat 64KB address space of the CPU.
// Addresses are uint16, so every access wraps modulo 65536.
type Memory [MEMORY_SIZE]byte

// ReadByte reads the byte at addr.
func (mem *Memory) ReadByte(addr uint16) byte {
	return mem[addr]
}

// ReadWord reads a little-endian word: low byte at addr, high byte at addr+1.
func (mem *Memory) ReadWord(addr uint16) uint16 {
	return uint16(mem[addr]) | (uint16(mem[addr+1]) << 8)
}

// WriteByte writes val to addr.
func (mem *Memory) WriteByte(addr uint16, val byte) {
	mem[addr] = val
}

// WriteWord writes a little-endian word, the inverse of ReadWord.
func (mem *Memory) WriteWord(addr uint16, val uint16) {
	mem[addr] = byte(val & 0xff)
	mem[addr+1] = byte(val >> 8)
}

// Fill sets every byte of memory to value.
func (mem *Memory) Fill(value byte) {
	for n := range mem {
		mem[n] = value
	}
}

// Load copies data into memory starting at address 0.
// Data beyond 64KB is dropped; bytes past the end of data are untouched.
func (mem *Memory) Load(data []byte) (count int) {
	count = copy(mem[:], data)
	return
}

// Slice returns a copy of the memory in [start, end).
// When end < start the range wraps past 0xffff.
func (mem *Memory) Slice(start, end uint16) (data []byte) {
	for addr := start; addr != end; addr++ {
		data = append(data, mem[addr])
	}
	return
}
