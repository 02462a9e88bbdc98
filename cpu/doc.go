// Package cpu implements the processor core and assembler for the acc8 system.
//
// The CPU is an 8-bit accumulator machine with three 16-bit register pairs
// (BC, DE, HL) that are also addressable as 8-bit halves, a downward growing
// stack in main memory, a program counter that starts at 0x0100, and five
// condition flags (zero, sign, parity, carry, auxiliary carry). Memory is a
// flat 64KB byte array; every address wraps modulo 65536.
//
// Execution is driven one instruction at a time by Cpu.Tick. Opcodes are
// decoded through a 256 entry table; an opcode without a handler halts the
// CPU with an ErrUnimplemented describing the opcode and its address.
//
// The assembler accepts the same syntax the disassembler produces, with
// labels, equates, macros and $(...) compile-time expressions.
package cpu
