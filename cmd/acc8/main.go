// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ezrec/acc8/cpu"
	"github.com/ezrec/acc8/emulator"
	"github.com/ezrec/acc8/monitor"
)

const (
	BOOT_DUMP_BYTES = 10 // Bytes dumped from the entry point before running.
)

func main() {
	var compile string
	var output string
	var interactive bool
	var verbose bool
	var delay time.Duration

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&output, "o", "", "Write assembled image to file, do not execute")
	flag.BoolVar(&interactive, "i", false, "Interactive monitor")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.DurationVar(&delay, "delay", 0, "Delay between instruction cycles")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Delay = delay

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	}

	if len(output) != 0 {
		err := os.WriteFile(output, emu.Program.Binary(), 0644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	// Memory is all NOP unless an image is loaded.
	emu.Fill(0x00)
	if flag.NArg() == 1 {
		dir, name := splitPath(flag.Arg(0))
		err := emu.LoadFile(os.DirFS(dir), name)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	emu.Reset()

	if interactive {
		// The monitor interrupts each run on its own.
		mon := monitor.NewMonitor(emu, os.Stdout)
		err := mon.Run(context.Background(), os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	entry := int(cpu.RESET_PC)
	err := emu.Dump(os.Stdout, entry, entry+BOOT_DUMP_BYTES)
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}
