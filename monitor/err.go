package monitor

import (
	"errors"

	"github.com/ezrec/acc8/translate"
)

var f = translate.From

var (
	ErrArgumentCount = errors.New(f("wrong number of arguments"))
)

// ErrCommand is returned for a command that cannot be found.
type ErrCommand struct {
	Name string
	Err  error
}

func (err *ErrCommand) Error() string {
	return f("command '%v': %v", err.Name, err.Err)
}

func (err *ErrCommand) Unwrap() error {
	return err.Err
}

// ErrArgument is returned for an argument that is not a number.
type ErrArgument string

func (err ErrArgument) Error() string {
	return f("'%v' is not a number", string(err))
}
