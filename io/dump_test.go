package io

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/acc8/cpu"
)

func TestDump(t *testing.T) {
	assert := assert.New(t)

	mem := &cpu.Memory{}
	for n := range 0x40 {
		mem.WriteByte(uint16(0x100+n), byte(n))
	}

	table := [](struct {
		name   string
		start  int
		end    int
		output string
	}){
		{"empty", 0x100, 0x100, "\n"},
		{"boot", 0x100, 0x10a, "00 01 02 03 04 05 06 07 08 09 \n"},
		{"aligned", 0x100, 0x120, "00 01 02 03 04 05 06 07 08 09 0A 0B 0C 0D 0E 0F \n" +
			"10 11 12 13 14 15 16 17 18 19 1A 1B 1C 1D 1E 1F \n"},
		{"unaligned", 0x10e, 0x112, "0E 0F \n10 11 \n"},
		{"top", 0xfffe, 0x10000, "00 00 \n"},
	}

	for _, entry := range table {
		var out strings.Builder
		err := Dump(&out, mem, entry.start, entry.end)
		assert.NoError(err, entry.name)
		assert.Equal(entry.output, out.String(), entry.name)
	}
}
