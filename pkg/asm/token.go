package asm

import "ferrovm/pkg/inst"

// TokenKind distinguishes the variants of Token.
type TokenKind int

const (
	// TokOp is an alphabetic run looked up as a mnemonic; an
	// unrecognized one carries inst.Illegal.
	TokOp TokenKind = iota
	// TokRegister is `$<decimal>`, 0..255.
	TokRegister
	// TokInteger is `#<decimal>` (no sign), 0..2147483647.
	TokInteger
	// TokLabelDecl is `<alnum>:`.
	TokLabelDecl
	// TokLabelUsage is `@<alnum>`.
	TokLabelUsage
	// TokDirective is `.<alpha>`.
	TokDirective
)

// Token is the tagged union produced by the lexer. Only the field(s)
// relevant to Kind are meaningful; the rest are zero.
type Token struct {
	Kind TokenKind

	Op          inst.Opcode
	OpByte      byte // carried alongside Op so an Illegal op keeps its byte
	Register    uint8
	Integer     int32
	Name        string // label declaration/usage name, or directive name
	Line        int
}

func opToken(op inst.Opcode, b byte, line int) Token {
	return Token{Kind: TokOp, Op: op, OpByte: b, Line: line}
}

func registerToken(reg uint8, line int) Token {
	return Token{Kind: TokRegister, Register: reg, Line: line}
}

func integerToken(v int32, line int) Token {
	return Token{Kind: TokInteger, Integer: v, Line: line}
}

func labelDeclToken(name string, line int) Token {
	return Token{Kind: TokLabelDecl, Name: name, Line: line}
}

func labelUsageToken(name string, line int) Token {
	return Token{Kind: TokLabelUsage, Name: name, Line: line}
}

func directiveToken(name string, line int) Token {
	return Token{Kind: TokDirective, Name: name, Line: line}
}
