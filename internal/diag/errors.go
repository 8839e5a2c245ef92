// Package diag defines the structured error taxonomy shared by the
// assembler and the VM. Every error type here implements error;
// callers that need errors.Is/errors.As against a stable sentinel
// should compare against the Err* values below rather than the
// concrete types.
package diag

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is. Each concrete error type
// below wraps the corresponding sentinel.
var (
	ErrParse                = errors.New("diag: parse error")
	ErrMalformedInstruction = errors.New("diag: malformed instruction")
	ErrIllegalOpcode        = errors.New("diag: illegal opcode")
	ErrBadProgramCounter    = errors.New("diag: bad program counter")
	ErrRegisterOutOfRange   = errors.New("diag: register out of range")
	ErrDivideByZero         = errors.New("diag: divide by zero")
)

// ParseError reports that input text did not match the grammar. Line
// is 1-indexed; it is 0 when the parser could not attribute the
// failure to a specific line (e.g. unparsed trailing residue).
type ParseError struct {
	Line  int
	Msg   string
	Rest  string // residual unparsed text, if any
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("parse error: %s", e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// MalformedInstruction reports that a parsed instruction could not be
// encoded: a directive-only instruction reached the encoder, or an
// operand slot held a token of the wrong kind.
type MalformedInstruction struct {
	Msg string
}

func (e *MalformedInstruction) Error() string {
	return fmt.Sprintf("malformed instruction: %s", e.Msg)
}

func (e *MalformedInstruction) Unwrap() error { return ErrMalformedInstruction }

// IllegalOpcode reports that the VM decoded a byte with no legal
// opcode assignment.
type IllegalOpcode struct {
	Byte byte
}

func (e *IllegalOpcode) Error() string {
	return fmt.Sprintf("illegal opcode byte 0x%02X", e.Byte)
}

func (e *IllegalOpcode) Unwrap() error { return ErrIllegalOpcode }

// BadProgramCounter reports that the VM attempted to read past the end
// of the program mid-instruction, or that a JMPB underflowed.
type BadProgramCounter struct {
	PC int
}

func (e *BadProgramCounter) Error() string {
	return fmt.Sprintf("bad program counter %d", e.PC)
}

func (e *BadProgramCounter) Unwrap() error { return ErrBadProgramCounter }

// RegisterOutOfRange reports an attempt to address a register index
// outside 0..32.
type RegisterOutOfRange struct {
	Index int
}

func (e *RegisterOutOfRange) Error() string {
	return fmt.Sprintf("register index %d out of range", e.Index)
}

func (e *RegisterOutOfRange) Unwrap() error { return ErrRegisterOutOfRange }

// DivideByZero reports a DIV instruction whose divisor register held 0.
type DivideByZero struct{}

func (e *DivideByZero) Error() string { return "divide by zero" }

func (e *DivideByZero) Unwrap() error { return ErrDivideByZero }
