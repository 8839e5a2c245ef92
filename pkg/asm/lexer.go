package asm

import (
	"fmt"
	"io"
	"strconv"

	"ferrovm/internal/diag"
	"ferrovm/pkg/inst"
)

// tokenOrError is what startLexing puts on its output channel: either a
// successfully lexed Token, or the first error encountered (after which
// the channel is closed without further tokens).
type tokenOrError struct {
	Token Token
	Err   error
}

// startLexing reads the entire source from r and lexes it into tokens,
// writing them to the returned channel from a background goroutine.
// The lexer and parser each run as one stage of a pipeline connected by
// channels (encoding happens later, in Program.Bytes), even though the whole pipeline is driven
// synchronously to completion by a single caller (Assemble).
func startLexing(r io.Reader) <-chan tokenOrError {
	out := make(chan tokenOrError)
	go func() {
		defer close(out)
		src, err := io.ReadAll(r)
		if err != nil {
			out <- tokenOrError{Err: err}
			return
		}
		lexAll(string(src), out)
	}()
	return out
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlnum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func lexAll(src string, out chan<- tokenOrError) {
	i := 0
	line := 1
	n := len(src)

	for i < n {
		c := src[i]

		if isSpace(c) {
			if c == '\n' {
				line++
			}
			i++
			continue
		}

		switch {
		case isAlnum(c):
			start := i
			hasDigit := false
			for i < n && isAlnum(src[i]) {
				if isDigit(src[i]) {
					hasDigit = true
				}
				i++
			}
			run := src[start:i]

			if i < n && src[i] == ':' {
				i++
				out <- tokenOrError{Token: labelDeclToken(run, line)}
				continue
			}
			if hasDigit {
				out <- tokenOrError{Err: &diag.ParseError{
					Line: line,
					Msg:  fmt.Sprintf("%q is neither a valid opcode nor a label declaration", run),
				}}
				return
			}
			op, b := inst.MnemonicToOpcode(run)
			out <- tokenOrError{Token: opToken(op, b, line)}

		case c == '$':
			start := i
			i++
			digitsStart := i
			for i < n && isDigit(src[i]) {
				i++
			}
			if i == digitsStart {
				out <- tokenOrError{Err: &diag.ParseError{Line: line, Msg: "expected digits after '$'"}}
				return
			}
			value, err := strconv.ParseUint(src[digitsStart:i], 10, 8)
			if err != nil {
				out <- tokenOrError{Err: &diag.ParseError{
					Line: line,
					Msg:  fmt.Sprintf("register %q does not fit in 8 bits", src[start:i]),
				}}
				return
			}
			out <- tokenOrError{Token: registerToken(uint8(value), line)}

		case c == '#':
			i++
			digitsStart := i
			for i < n && isDigit(src[i]) {
				i++
			}
			if i == digitsStart {
				out <- tokenOrError{Err: &diag.ParseError{Line: line, Msg: "expected digits after '#'"}}
				return
			}
			value, err := strconv.ParseInt(src[digitsStart:i], 10, 32)
			if err != nil {
				out <- tokenOrError{Err: &diag.ParseError{
					Line: line,
					Msg:  fmt.Sprintf("integer operand %q does not fit in 32 bits", src[digitsStart:i]),
				}}
				return
			}
			out <- tokenOrError{Token: integerToken(int32(value), line)}

		case c == '@':
			i++
			start := i
			for i < n && isAlnum(src[i]) {
				i++
			}
			if i == start {
				out <- tokenOrError{Err: &diag.ParseError{Line: line, Msg: "expected a name after '@'"}}
				return
			}
			out <- tokenOrError{Token: labelUsageToken(src[start:i], line)}

		case c == '.':
			i++
			start := i
			for i < n && isAlpha(src[i]) {
				i++
			}
			if i == start {
				out <- tokenOrError{Err: &diag.ParseError{Line: line, Msg: "expected a name after '.'"}}
				return
			}
			out <- tokenOrError{Token: directiveToken(src[start:i], line)}

		default:
			out <- tokenOrError{Err: &diag.ParseError{
				Line: line,
				Msg:  fmt.Sprintf("unexpected character %q", c),
			}}
			return
		}
	}
}
