// Package monitor is an interactive, line oriented debugger for the emulator.
package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
	"github.com/fatih/color"

	"github.com/ezrec/acc8/cpu"
	"github.com/ezrec/acc8/emulator"
)

const (
	PROMPT            = "acc8> " // Command prompt.
	DUMP_BYTES        = 0x40     // Default number of bytes to dump.
	DISASSEMBLE_LINES = 8        // Default number of instructions to disassemble.
	DISASSEMBLE_LIMIT = 0x100    // Most instructions disassembled at once.
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

type command struct {
	name  string
	usage string
	help  string
	exec  func(mon *Monitor, ctx context.Context, args []string) error
}

var commandList = []command{
	{"step", "step [n]", "execute n instructions", (*Monitor).step},
	{"run", "run [n]", "run until halted, or for n instructions", (*Monitor).run},
	{"registers", "registers", "show the registers", (*Monitor).registers},
	{"dump", "dump <start> [end]", "dump memory", (*Monitor).dump},
	{"disassemble", "disassemble [addr] [n]", "disassemble n instructions", (*Monitor).disassemble},
	{"reset", "reset", "reset the cpu and reload the program", (*Monitor).reset},
	{"help", "help", "show this help", (*Monitor).help},
	{"quit", "quit", "leave the monitor", (*Monitor).quit},
}

// Monitor runs debugger commands against an emulator.
type Monitor struct {
	Emulator *emulator.Emulator // Emulator under control.
	Output   io.Writer          // Command output.

	// Interrupt derives the context for a single run command, cancelled
	// when the user interrupts the run.
	Interrupt func(ctx context.Context) (context.Context, context.CancelFunc)

	list     []command
	commands *prefixtree.Tree[*command]
	last     string
	done     bool
}

// NewMonitor creates a monitor for emu, writing to output.
func NewMonitor(emu *emulator.Emulator, output io.Writer) (mon *Monitor) {
	mon = &Monitor{
		Emulator: emu,
		Output:   output,
		list:     commandList,
		commands: prefixtree.New[*command](),
		Interrupt: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}

	for n := range mon.list {
		mon.commands.Add(mon.list[n].name, &mon.list[n])
	}

	return
}

// Done is true once the quit command has run.
func (mon *Monitor) Done() bool {
	return mon.done
}

// Run reads command lines from input until quit, end of input, or ctx is done.
// Command errors are reported on Output and do not stop the monitor.
func (mon *Monitor) Run(ctx context.Context, input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	for !mon.done {
		if ctx.Err() != nil {
			err = ctx.Err()
			return
		}

		fmt.Fprint(mon.Output, PROMPT)
		if !scanner.Scan() {
			err = scanner.Err()
			return
		}

		cmd_err := mon.Execute(ctx, scanner.Text())
		if cmd_err != nil {
			fmt.Fprintln(mon.Output, red(cmd_err))
		}
	}

	return
}

// Execute runs a single command line. An empty line repeats the last command.
func (mon *Monitor) Execute(ctx context.Context, line string) (err error) {
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		line = mon.last
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	cmd, err := mon.commands.FindValue(strings.ToLower(words[0]))
	if err != nil {
		err = &ErrCommand{Name: words[0], Err: err}
		return
	}

	mon.last = line

	err = cmd.exec(mon, ctx, words[1:])

	return
}

// parseNumber parses decimal, 0x or $ prefixed hexadecimal values.
func parseNumber(word string) (value int, err error) {
	number := word
	if strings.HasPrefix(number, "$") {
		number = "0x" + number[1:]
	}

	v64, err := strconv.ParseUint(number, 0, 32)
	if err != nil {
		err = ErrArgument(word)
		return
	}

	value = int(v64)
	return
}

// parseArgs parses up to len(values) numeric arguments into values.
func parseArgs(args []string, values ...*int) (err error) {
	if len(args) > len(values) {
		err = ErrArgumentCount
		return
	}

	for n, arg := range args {
		*values[n], err = parseNumber(arg)
		if err != nil {
			return
		}
	}

	return
}

// showNext prints the next instruction, or the halt reason.
func (mon *Monitor) showNext() {
	emu := mon.Emulator
	if emu.State == cpu.STATE_HALTED {
		fmt.Fprintf(mon.Output, "%v %v\n", yellow("halted:"), red(emu.Halt))
		return
	}

	text, _ := cpu.Disassemble(&emu.Memory, emu.PC)
	fmt.Fprintf(mon.Output, "%04X: %v\n", emu.PC, text)
}

func (mon *Monitor) step(ctx context.Context, args []string) (err error) {
	count := 1
	err = parseArgs(args, &count)
	if err != nil {
		return
	}

	for range count {
		done, _ := mon.Emulator.Tick()
		if done {
			break
		}
	}

	mon.showNext()

	return
}

func (mon *Monitor) run(ctx context.Context, args []string) (err error) {
	count := -1
	err = parseArgs(args, &count)
	if err != nil {
		return
	}

	run_ctx, stop := mon.Interrupt(ctx)
	defer stop()

	if count < 0 {
		err = mon.Emulator.Run(run_ctx)
		if mon.Emulator.State == cpu.STATE_HALTED {
			err = nil
		}
	} else {
		for range count {
			if run_ctx.Err() != nil {
				err = run_ctx.Err()
				break
			}
			done, _ := mon.Emulator.Tick()
			if done {
				break
			}
		}
	}

	// An interrupted run returns to the prompt.
	if err != nil && ctx.Err() == nil && run_ctx.Err() != nil {
		fmt.Fprintln(mon.Output, yellow("interrupted"))
		err = nil
	}

	mon.showNext()

	return
}

func (mon *Monitor) registers(ctx context.Context, args []string) (err error) {
	if len(args) != 0 {
		err = ErrArgumentCount
		return
	}

	_, err = fmt.Fprint(mon.Output, mon.Emulator.Cpu.String())

	return
}

func (mon *Monitor) dump(ctx context.Context, args []string) (err error) {
	if len(args) == 0 {
		err = ErrArgumentCount
		return
	}

	var start, end int
	err = parseArgs(args, &start, &end)
	if err != nil {
		return
	}
	if len(args) == 1 {
		end = start + DUMP_BYTES
	}
	end = min(end, cpu.MEMORY_SIZE)

	err = mon.Emulator.Dump(mon.Output, start, end)

	return
}

func (mon *Monitor) disassemble(ctx context.Context, args []string) (err error) {
	addr := int(mon.Emulator.PC)
	lines := DISASSEMBLE_LINES
	err = parseArgs(args, &addr, &lines)
	if err != nil {
		return
	}
	lines = min(lines, DISASSEMBLE_LIMIT)

	pc := uint16(addr)
	for range lines {
		text, size := cpu.Disassemble(&mon.Emulator.Memory, pc)
		fmt.Fprintf(mon.Output, "%04X: %v\n", pc, text)
		pc += uint16(size)
	}

	return
}

func (mon *Monitor) reset(ctx context.Context, args []string) (err error) {
	mon.Emulator.Reset()
	mon.showNext()
	return
}

func (mon *Monitor) help(ctx context.Context, args []string) (err error) {
	for _, cmd := range mon.list {
		fmt.Fprintf(mon.Output, "%-24s %v\n", cmd.usage, cmd.help)
	}
	return
}

func (mon *Monitor) quit(ctx context.Context, args []string) (err error) {
	mon.done = true
	return
}
