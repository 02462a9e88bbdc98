package emulator

import (
	"github.com/ezrec/acc8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%04x %v", err.Pc, err.Err)
	}
	return f("line %d pc 0x%04x %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrImageLoad is returned when a memory image cannot be loaded.
type ErrImageLoad struct {
	Name string
	Err  error
}

func (err *ErrImageLoad) Error() string {
	return f("image %v: %v", err.Name, err.Err)
}

func (err *ErrImageLoad) Unwrap() error {
	return err.Err
}
