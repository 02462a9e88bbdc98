package io

import (
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/acc8/internal"
)

// DUMP_WIDTH is the number of bytes per line of a memory dump.
const DUMP_WIDTH = 16

// ByteReader reads single bytes from an address space.
type ByteReader interface {
	ReadByte(addr uint16) byte
}

// Dump writes the bytes in [start, end) as two hex digits each. A new line
// begins at every multiple of DUMP_WIDTH after start.
func Dump(w io.Writer, mem ByteReader, start, end int) (err error) {
	var text strings.Builder

	for lo, hi := range internal.IterChunks(start, end, DUMP_WIDTH) {
		if text.Len() != 0 {
			text.WriteString("\n")
		}
		for addr := lo; addr < hi; addr++ {
			fmt.Fprintf(&text, "%02X ", mem.ReadByte(uint16(addr)))
		}
	}
	text.WriteString("\n")

	_, err = io.WriteString(w, text.String())

	return
}
