package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"RESET_PC":    fmt.Sprintf("0x%04x", RESET_PC),
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
	"IO_BASE":     fmt.Sprintf("0x%04x", IO_BASE),
}

// State is the execution state of the CPU.
type State int

const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
)

func (st State) String() string {
	switch st {
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", int(st))
}

// Cpu is the simulation context for the processor, its registers and
// the memory it owns.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers        // Register file.
	Flags     Flags  // Condition flags.
	Memory    Memory // Main memory.

	State State // Current execution state.
	Halt  error // Reason for STATE_HALTED.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU with zeroed memory, in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Sets PC to RESET_PC and SP to RESET_SP, clears all other registers.
// - Clears the flags.
// - Returns to STATE_RUNNING and zeros the tick counter.
// Memory is not modified.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Flags.Clear()
	cpu.State = STATE_RUNNING
	cpu.Halt = nil
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"pc", "sp",
		"a", "bc", "de", "hl",
		"flags", "state",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.PC)
		case "sp":
			strval = fmt.Sprintf("%04X", cpu.SP)
		case "a":
			strval = fmt.Sprintf("%02X", cpu.A)
		case "bc":
			strval = fmt.Sprintf("%04X", cpu.BC.Word())
		case "de":
			strval = fmt.Sprintf("%04X", cpu.DE.Word())
		case "hl":
			strval = fmt.Sprintf("%04X", cpu.HL.Word())
		case "flags":
			strval = cpu.Flags.String()
		case "state":
			strval = cpu.State.String()
			if cpu.Halt != nil {
				strval += fmt.Sprintf(" (%v)", cpu.Halt)
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// Fetch reads the opcode at PC and advances PC past it.
func (cpu *Cpu) Fetch() (opcode byte) {
	return cpu.fetchByte()
}

// Tick executes a single CPU instruction cycle.
// Once halted, every further Tick returns the halt reason.
func (cpu *Cpu) Tick() (err error) {
	if cpu.State == STATE_HALTED {
		err = cpu.Halt
		if err == nil {
			err = ErrHalted
		}
		return
	}

	opcode := cpu.Fetch()

	err = cpu.Execute(opcode)
	if err != nil {
		cpu.State = STATE_HALTED
		cpu.Halt = err
		if cpu.Verbose {
			log.Printf("cpu: halted: %v", err)
		}
		return
	}

	cpu.Ticks += 1

	return
}

// Execute executes a single opcode. PC must already point past the opcode.
func (cpu *Cpu) Execute(opcode byte) (err error) {
	ins := &instructionTable[opcode]

	if cpu.Verbose && ins.mapped {
		pc := cpu.PC - 1
		text, _ := Disassemble(&cpu.Memory, pc)
		log.Printf("%04x: %v", pc, text)
	}

	return ins.exec(cpu)
}
