package vm

import (
	"errors"
	"testing"

	"ferrovm/internal/diag"
)

func TestFreshVMInvariants(t *testing.T) {
	m := New()
	if m.ProgramCounter() != 0 {
		t.Fatalf("PC = %d, want 0", m.ProgramCounter())
	}
	if m.Remainder() != 0 {
		t.Fatalf("remainder = %d, want 0", m.Remainder())
	}
	if m.EqualityFlag() {
		t.Fatalf("eqFlag = true, want false")
	}
	if len(m.Program()) != 0 {
		t.Fatalf("program length = %d, want 0", len(m.Program()))
	}
	for i, r := range m.Registers() {
		if r != 0 {
			t.Fatalf("register %d = %d, want 0", i, r)
		}
	}
}

func TestStepPastEndReturnsFalseWithoutMutation(t *testing.T) {
	m := New()
	if m.Step() {
		t.Fatalf("Step() on an empty program should return false")
	}
	if m.LastError() != nil {
		t.Fatalf("LastError() = %v, want nil for a clean past-end halt", m.LastError())
	}
	if m.ProgramCounter() != 0 {
		t.Fatalf("PC mutated to %d", m.ProgramCounter())
	}
}

func TestLoadThenHalt(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{0x01, 0x00, 0x01, 0xF4, 0x00})
	m.Run()
	if got := m.Registers()[0]; got != 500 {
		t.Fatalf("reg[0] = %d, want 500", got)
	}
	if m.LastError() != nil {
		t.Fatalf("LastError() = %v, want nil (clean HLT)", m.LastError())
	}
}

func TestThreeOperandADD(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{
		0x01, 0x00, 0x00, 0x02,
		0x01, 0x01, 0x00, 0x02,
		0x02, 0x00, 0x01, 0x02,
	})
	m.Run()
	regs := m.Registers()
	if regs[0] != 2 || regs[1] != 2 || regs[2] != 4 {
		t.Fatalf("regs = %v, want [2 2 4 ...]", regs[:3])
	}
}

func TestDivRemainder(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{
		0x01, 0x00, 0x00, 0x05,
		0x01, 0x01, 0x00, 0x02,
		0x05, 0x00, 0x01, 0x02,
	})
	m.Run()
	regs := m.Registers()
	if regs[0] != 5 || regs[1] != 2 || regs[2] != 2 {
		t.Fatalf("regs = %v, want [5 2 2 ...]", regs[:3])
	}
	if m.Remainder() != 1 {
		t.Fatalf("remainder = %d, want 1", m.Remainder())
	}
}

func TestJMPFRelative(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{0x01, 0x00, 0x00, 0x02}) // load $0 #2
	m.RunOnce()
	m.AppendBytes([]byte{0x07, 0x00}) // jmpf $0
	m.RunOnce()
	if m.ProgramCounter() != 8 {
		t.Fatalf("PC = %d, want 8 (4 after LOAD + 2-byte JMPF instruction + reg[0]=2)", m.ProgramCounter())
	}
}

func TestEQThenJEQTaken(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{0x01, 0x00, 0x00, 0x07}) // load $0 #7
	m.RunOnce()
	m.AppendBytes([]byte{0x01, 0x01, 0x00, 0x07}) // load $1 #7
	m.RunOnce()
	m.AppendBytes([]byte{0x09, 0x00, 0x01, 0x00}) // eq $0 $1 <pad>
	m.RunOnce()
	if !m.EqualityFlag() {
		t.Fatalf("eqFlag = false after EQ of equal registers")
	}
	m.AppendBytes([]byte{0x0F, 0x00}) // jeq $0
	m.RunOnce()
	if m.ProgramCounter() != 7 {
		t.Fatalf("PC = %d, want 7 (reg[0] == 7)", m.ProgramCounter())
	}
}

func TestIllegalOpcodeHalts(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{0xFF, 0x00, 0x00, 0x00})
	if m.Step() {
		t.Fatalf("Step() on an illegal opcode should return false")
	}
	if m.ProgramCounter() != 1 {
		t.Fatalf("PC = %d, want 1", m.ProgramCounter())
	}
	var illegal *diag.IllegalOpcode
	if !errors.As(m.LastError(), &illegal) {
		t.Fatalf("LastError() = %v, want *diag.IllegalOpcode", m.LastError())
	}
	if illegal.Byte != 0xFF {
		t.Fatalf("illegal.Byte = 0x%02X, want 0xFF", illegal.Byte)
	}
}

func TestDivideByZero(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{
		0x01, 0x00, 0x00, 0x05, // load $0 #5
		0x05, 0x00, 0x01, 0x02, // div $0 $1 $2 (reg[1] == 0)
	})
	m.Run()
	if !errors.Is(m.LastError(), diag.ErrDivideByZero) {
		t.Fatalf("LastError() = %v, want ErrDivideByZero", m.LastError())
	}
}

func TestRegisterOutOfRange(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{0x01, 0xFF, 0x00, 0x01}) // load $255 #1
	m.Run()
	var rng *diag.RegisterOutOfRange
	if !errors.As(m.LastError(), &rng) {
		t.Fatalf("LastError() = %v, want *diag.RegisterOutOfRange", m.LastError())
	}
}

func TestJMPBUnderflowIsBadProgramCounter(t *testing.T) {
	m := New()
	m.AppendBytes([]byte{
		0x01, 0x00, 0x00, 0x64, // load $0 #100
		0x08, 0x00, // jmpb $0 (only 6 bytes precede, would underflow)
	})
	m.Run()
	var bad *diag.BadProgramCounter
	if !errors.As(m.LastError(), &bad) {
		t.Fatalf("LastError() = %v, want *diag.BadProgramCounter", m.LastError())
	}
}
