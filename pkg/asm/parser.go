package asm

import "ferrovm/internal/diag"

// instructionOrError is what startParsing puts on its output channel.
type instructionOrError struct {
	Instruction AssemblerInstruction
	Err         error
}

// startParsing drains a token stream and assembles it into instructions,
// one at a time, writing results to the returned channel from a
// background goroutine. It is the second stage of the lexer/parser
// pipeline.
//
// Grammar: an instruction is either
//
//	[label-decl] opcode operand{0,3}
//
// or
//
//	directive operand{0,3}
//
// where each operand is a register or integer token in any order; the
// parser accepts either kind in any slot and leaves type validation to
// Encode. Programs are sequences of instructions with no separator
// beyond whitespace, which the lexer already consumes.
func startParsing(in <-chan tokenOrError) <-chan instructionOrError {
	out := make(chan instructionOrError)
	go func() {
		defer close(out)

		// buffered "pushback" of one token, so the token that ends an
		// operand list is handed to the next instruction.
		var pending *Token
		next := func() (Token, bool, error) {
			if pending != nil {
				t := *pending
				pending = nil
				return t, true, nil
			}
			te, ok := <-in
			if !ok {
				return Token{}, false, nil
			}
			if te.Err != nil {
				return Token{}, false, te.Err
			}
			return te.Token, true, nil
		}

		for {
			tok, ok, err := next()
			if err != nil {
				out <- instructionOrError{Err: err}
				return
			}
			if !ok {
				return // clean end of input
			}

			var ai AssemblerInstruction

			if tok.Kind == TokLabelDecl {
				t := tok
				ai.LabelDecl = &t
				tok, ok, err = next()
				if err != nil {
					out <- instructionOrError{Err: err}
					return
				}
				if !ok {
					out <- instructionOrError{Err: &diag.ParseError{
						Line: t.Line,
						Msg:  "label declaration at end of input with nothing to label",
					}}
					return
				}
			}

			switch tok.Kind {
			case TokOp:
				t := tok
				ai.Opcode = &t
			case TokDirective:
				if ai.LabelDecl != nil {
					out <- instructionOrError{Err: &diag.ParseError{
						Line: tok.Line,
						Msg:  "a label declaration cannot precede a directive",
					}}
					return
				}
				t := tok
				ai.Directive = &t
			default:
				out <- instructionOrError{Err: &diag.ParseError{
					Line: tok.Line,
					Msg:  "expected an opcode or a directive",
				}}
				return
			}

			// Up to three operands; an operand is a register or
			// integer token. Any other token kind ends the operand
			// list and is pushed back for the next instruction.
			slots := []**Token{&ai.Operand1, &ai.Operand2, &ai.Operand3}
			for _, slot := range slots {
				opTok, ok, err := next()
				if err != nil {
					out <- instructionOrError{Err: err}
					return
				}
				if !ok {
					break
				}
				if opTok.Kind != TokRegister && opTok.Kind != TokInteger {
					pending = &opTok
					break
				}
				t := opTok
				*slot = &t
			}

			out <- instructionOrError{Instruction: ai}
		}
	}()
	return out
}
