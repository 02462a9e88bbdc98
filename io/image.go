package io

import (
	"io"
	"io/fs"

	"github.com/ezrec/acc8/cpu"
)

// ReadImage reads a raw memory image. The image is loaded at address 0,
// so only the first MEMORY_SIZE bytes are kept; the rest are ignored.
func ReadImage(r io.Reader) (image []byte, err error) {
	image, err = io.ReadAll(io.LimitReader(r, cpu.MEMORY_SIZE))
	return
}

// LoadImage reads the named raw memory image from fsys.
func LoadImage(fsys fs.FS, name string) (image []byte, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	image, err = ReadImage(inf)

	return
}
