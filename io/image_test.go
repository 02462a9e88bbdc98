package io

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/acc8/cpu"
)

func TestReadImage(t *testing.T) {
	assert := assert.New(t)

	image, err := ReadImage(bytes.NewReader([]byte{1, 2, 3}))
	assert.NoError(err)
	assert.Equal([]byte{1, 2, 3}, image)

	image, err = ReadImage(bytes.NewReader(make([]byte, cpu.MEMORY_SIZE)))
	assert.NoError(err)
	assert.Equal(cpu.MEMORY_SIZE, len(image))

	oversize := make([]byte, cpu.MEMORY_SIZE+4464)
	for n := range oversize {
		oversize[n] = byte(n*7 + n>>8)
	}
	image, err = ReadImage(bytes.NewReader(oversize))
	assert.NoError(err)
	assert.Equal(cpu.MEMORY_SIZE, len(image))
	assert.Equal(oversize[:cpu.MEMORY_SIZE], image)
}

func TestLoadImage(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"prog.bin": &fstest.MapFile{Data: []byte{0x3e, 0x01}},
	}

	image, err := LoadImage(fsys, "prog.bin")
	assert.NoError(err)
	assert.Equal([]byte{0x3e, 0x01}, image)

	_, err = LoadImage(fsys, "missing.bin")
	assert.True(errors.Is(err, fs.ErrNotExist))
}
