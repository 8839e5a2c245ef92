package asm

import (
	"ferrovm/internal/diag"
	"ferrovm/pkg/inst"
)

// AssemblerInstruction is one parsed instruction: either an opcode form
// (Opcode set, Directive nil) or a directive form (Directive set,
// Opcode nil). Operands fill Operand1..Operand3 without gaps: Operand2
// is only meaningful if Operand1 is set, and likewise for Operand3.
type AssemblerInstruction struct {
	LabelDecl *Token
	Opcode    *Token
	Directive *Token
	Operand1  *Token
	Operand2  *Token
	Operand3  *Token
}

// Encode serializes the instruction to bytes per the wire format: one
// opcode byte, then for each present operand slot in order either one
// register byte or two big-endian bytes for a truncated integer
// operand. A directive-only instruction, or any operand slot holding a
// token that is neither a register nor an integer, fails with
// MalformedInstruction.
func (ai *AssemblerInstruction) Encode() ([]byte, error) {
	if ai.Opcode == nil {
		return nil, &diag.MalformedInstruction{Msg: "cannot encode a directive without an opcode"}
	}

	out := make([]byte, 0, 1+2*3)
	out = append(out, inst.OpcodeToByte(ai.Opcode.Op, ai.Opcode.OpByte))

	for _, operand := range []*Token{ai.Operand1, ai.Operand2, ai.Operand3} {
		if operand == nil {
			continue
		}
		switch operand.Kind {
		case TokRegister:
			out = append(out, operand.Register)
		case TokInteger:
			u := uint16(operand.Integer) // two's-complement truncation
			out = append(out, byte(u>>8), byte(u))
		default:
			return nil, &diag.MalformedInstruction{Msg: "operand slot holds neither a register nor an integer"}
		}
	}
	return out, nil
}

// Program is an ordered sequence of parsed instructions.
type Program struct {
	Instructions []AssemblerInstruction
}

// Bytes concatenates every instruction's encoding in source order.
func (p *Program) Bytes() ([]byte, error) {
	var out []byte
	for i := range p.Instructions {
		b, err := p.Instructions[i].Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}
