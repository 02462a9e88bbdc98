package cpu

import (
	"fmt"
	"math/bits"
)

// Cond is a condition selector for conditional control flow.
type Cond int

const (
	COND_ZERO      = Cond(0) // Z
	COND_SIGN      = Cond(1) // S
	COND_CARRY     = Cond(2) // C
	COND_AUX_CARRY = Cond(3) // AC
	COND_NONE      = Cond(4) // always
)

var condNames = [...]string{"Z", "S", "C", "AC", "always"}

func (c Cond) String() string {
	if c < 0 || int(c) >= len(condNames) {
		return fmt.Sprintf("Cond(%d)", int(c))
	}
	return condNames[c]
}

// Flags is the condition flag register.
type Flags struct {
	Zero     bool // Result was zero.
	Sign     bool // Result was negative.
	Parity   bool // Result has an even number of set bits.
	Carry    bool // Carry out of bit 7, or borrow.
	AuxCarry bool // Carry out of bit 3, or borrow into it.
}

func (fl *Flags) SetZero(value bool)     { fl.Zero = value }
func (fl *Flags) SetSign(value bool)     { fl.Sign = value }
func (fl *Flags) SetParity(value bool)   { fl.Parity = value }
func (fl *Flags) SetCarry(value bool)    { fl.Carry = value }
func (fl *Flags) SetAuxCarry(value bool) { fl.AuxCarry = value }

// Clear resets all flags to false.
func (fl *Flags) Clear() {
	*fl = Flags{}
}

// Evaluate returns the state of the flag selected by cond.
// COND_NONE is unconditional, and always evaluates to true.
func (fl *Flags) Evaluate(cond Cond) bool {
	switch cond {
	case COND_ZERO:
		return fl.Zero
	case COND_SIGN:
		return fl.Sign
	case COND_CARRY:
		return fl.Carry
	case COND_AUX_CARRY:
		return fl.AuxCarry
	case COND_NONE:
		return true
	}
	return false
}

// setResult sets zero, sign and parity from an 8-bit result.
func (fl *Flags) setResult(result byte) {
	fl.Zero = result == 0
	fl.Sign = (result & 0x80) != 0
	fl.Parity = parity(result)
}

// parity is true when value has an even number of set bits.
func parity(value byte) bool {
	return bits.OnesCount8(value)%2 == 0
}

// String returns the flags as text, upper case for set flags.
func (fl *Flags) String() string {
	out := []byte("zspca")
	for n, set := range []bool{fl.Zero, fl.Sign, fl.Parity, fl.Carry, fl.AuxCarry} {
		if set {
			out[n] -= 'a' - 'A'
		}
	}
	return string(out)
}
