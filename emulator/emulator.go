// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/acc8/cpu"
	"github.com/ezrec/acc8/internal"
	acc8io "github.com/ezrec/acc8/io"
)

const (
	ENTRY    = cpu.RESET_PC    // Program entry point.
	MEM_SIZE = cpu.MEMORY_SIZE // Bytes of memory.
)

var _emulator_defines = map[string]string{
	"ENTRY":    fmt.Sprintf("0x%04x", ENTRY),
	"MEM_SIZE": fmt.Sprintf("0x%x", MEM_SIZE),
}

// Emulator state. CPU + memory image + program listing.
type Emulator struct {
	Verbose  bool          // If set, enables verbose logging.
	*cpu.Cpu               // Reference to the CPU simulation.
	Program  *cpu.Program  // Reference to the currently running program listing.
	Delay    time.Duration // Delay between instruction cycles in Run.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the CPU, and load the program image if there is one.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	image := emu.Program.Binary()
	if len(image) != 0 {
		emu.Cpu.Memory.Load(image)
	}
}

// Fill all of memory with a single byte.
func (emu *Emulator) Fill(value byte) {
	emu.Cpu.Memory.Fill(value)
}

// LoadImage loads a raw memory image at address 0.
func (emu *Emulator) LoadImage(r io.Reader) (err error) {
	image, err := acc8io.ReadImage(r)
	if err != nil {
		err = &ErrImageLoad{Name: "-", Err: err}
		return
	}

	count := emu.Cpu.Memory.Load(image)
	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes", count)
	}

	return
}

// LoadFile loads a raw memory image file at address 0.
func (emu *Emulator) LoadFile(fsys fs.FS, name string) (err error) {
	image, err := acc8io.LoadImage(fsys, name)
	if err != nil {
		err = &ErrImageLoad{Name: name, Err: err}
		return
	}

	count := emu.Cpu.Memory.Load(image)
	if emu.Verbose {
		log.Printf("emulator: %v: loaded %d bytes", name, count)
	}

	return
}

// Dump writes memory in [start, end) as hex text.
func (emu *Emulator) Dump(w io.Writer, start, end int) error {
	return acc8io.Dump(w, &emu.Cpu.Memory, start, end)
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.PC)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator. Once the CPU halts, done is
// set and the halt reason is returned.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.PC
	lineno := emu.LineNo()

	err = emu.Cpu.Tick()
	if err != nil {
		done = true
		err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
	}

	return
}

// Run ticks the emulator until the CPU halts or ctx is done.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	var timer *time.Timer
	if emu.Delay > 0 {
		timer = time.NewTimer(emu.Delay)
		defer timer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if done {
			return
		}

		if timer != nil {
			timer.Reset(emu.Delay)
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			case <-timer.C:
			}
		}
	}
}
