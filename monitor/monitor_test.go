package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/acc8/cpu"
	"github.com/ezrec/acc8/emulator"
)

func newTestMonitor(t *testing.T, program ...string) (mon *Monitor, out *strings.Builder) {
	color.NoColor = true

	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Reset()

	out = &strings.Builder{}
	mon = NewMonitor(emu, out)

	return
}

func TestMonitorLookup(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, "nop")
	ctx := context.Background()

	table := [](struct {
		line string
		ok   bool
	}){
		{"s", true},
		{"STEP", true},
		{"h", true},
		{"reg", true},
		{"dis", true},
		{"r", false},
		{"d", false},
		{"xyzzy", false},
	}

	for _, entry := range table {
		err := mon.Execute(ctx, entry.line)
		if entry.ok {
			assert.NoError(err, entry.line)
		} else {
			var cmd_err *ErrCommand
			assert.True(errors.As(err, &cmd_err), entry.line)
		}
	}

	assert.NotEmpty(out.String())
	assert.False(mon.Done())
	assert.NoError(mon.Execute(ctx, "q"))
	assert.True(mon.Done())
}

func TestMonitorCommands(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t,
		"  ld a, 1",
		"  inc a",
		"  .db $76",
	)
	ctx := context.Background()

	assert.NoError(mon.Execute(ctx, "step"))
	assert.Equal("0102: INC A\n", out.String())

	// Empty line repeats the last command.
	out.Reset()
	assert.NoError(mon.Execute(ctx, ""))
	assert.Equal("0103: .db $76\n", out.String())

	out.Reset()
	assert.NoError(mon.Execute(ctx, "registers"))
	assert.Contains(out.String(), "    a: 02\n")

	out.Reset()
	assert.NoError(mon.Execute(ctx, "dump $100 0x103"))
	assert.Equal("3E 01 3C \n", out.String())

	out.Reset()
	assert.NoError(mon.Execute(ctx, "disassemble 0x100 2"))
	assert.Equal("0100: LD A,$01\n0102: INC A\n", out.String())

	out.Reset()
	assert.NoError(mon.Execute(ctx, "run"))
	assert.Contains(out.String(), "halted:")
	assert.Contains(out.String(), "0x76")
	assert.Equal(cpu.STATE_HALTED, mon.Emulator.State)

	out.Reset()
	assert.NoError(mon.Execute(ctx, "reset"))
	assert.Equal("0100: LD A,$01\n", out.String())

	out.Reset()
	assert.NoError(mon.Execute(ctx, "run 1"))
	assert.Equal("0102: INC A\n", out.String())

	assert.ErrorIs(mon.Execute(ctx, "dump"), ErrArgumentCount)
	assert.ErrorIs(mon.Execute(ctx, "step 1 2"), ErrArgumentCount)
	assert.ErrorIs(mon.Execute(ctx, "step many"), ErrArgument("many"))
}

func TestMonitorRun(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, "  nop", "  nop")

	input := strings.NewReader("help\nquit\nstep\n")
	err := mon.Run(context.Background(), input)
	assert.NoError(err)
	assert.True(mon.Done())
	assert.Contains(out.String(), "step [n]")
	assert.Equal(cpu.RESET_PC, mon.Emulator.PC)

	// Unknown commands are reported, and the monitor continues.
	mon, out = newTestMonitor(t, "  nop")
	err = mon.Run(context.Background(), strings.NewReader("bogus\nstep\n"))
	assert.NoError(err)
	assert.False(mon.Done())
	assert.Contains(out.String(), "bogus")
	assert.Equal(cpu.RESET_PC+1, mon.Emulator.PC)
}

func TestMonitorRunInterrupt(t *testing.T) {
	assert := assert.New(t)

	mon, out := newTestMonitor(t, "spin: jr spin")
	mon.Interrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(ctx, 10*time.Millisecond)
	}

	err := mon.Execute(context.Background(), "run")
	assert.NoError(err)
	assert.Contains(out.String(), "interrupted")
	assert.False(mon.Done())
	assert.Equal(cpu.STATE_RUNNING, mon.Emulator.State)
	assert.Less(0, mon.Emulator.Ticks)

	// The monitor keeps accepting commands after an interrupted run.
	out.Reset()
	input := strings.NewReader("run 3\nregisters\nquit\n")
	err = mon.Run(context.Background(), input)
	assert.NoError(err)
	assert.True(mon.Done())
	assert.NotContains(out.String(), "interrupted")
	assert.Contains(out.String(), "   pc: 0100")

	// Cancelling the monitor itself still ends the run with an error.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = mon.Execute(ctx, "run")
	assert.True(errors.Is(err, context.Canceled))
}
