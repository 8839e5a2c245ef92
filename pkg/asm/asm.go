// Package asm is the ferrovm assembler: it turns assembly source text
// into a Program ready to be encoded to bytes and appended to a VM.
//
// Internally Assemble wires together a small pipeline: a lexer
// goroutine feeds tokens down a channel, a parser goroutine drains
// that channel and produces AssemblerInstruction values down a second
// channel, and Assemble drains that into a Program. From the caller's
// perspective this is entirely synchronous: Assemble blocks until the
// whole program has been read, or returns the first error encountered.
package asm

import "io"

// Assemble parses the full contents of r as assembly source and
// returns the resulting Program, or the first ParseError encountered.
// It consumes the entire input; there is no partial-program result
// on error.
func Assemble(r io.Reader) (*Program, error) {
	tokens := startLexing(r)
	instructions := startParsing(tokens)

	var prog Program
	for ie := range instructions {
		if ie.Err != nil {
			return nil, ie.Err
		}
		prog.Instructions = append(prog.Instructions, ie.Instruction)
	}
	return &prog, nil
}
