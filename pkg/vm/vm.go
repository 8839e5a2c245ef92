// Package vm implements the ferrovm register machine: a 32-register,
// byte-addressed program buffer, a fetch/decode/execute loop driven one
// instruction at a time by Step, and the handful of flags (equality,
// remainder) the instruction set reads and writes.
//
// Instruction format
//
// Every instruction starts with a one-byte opcode (see pkg/inst for the
// wire byte assignments). Operand bytes follow depending on the opcode:
// a register operand is one byte, an immediate operand is two bytes
// big-endian. Comparison opcodes (EQ, NEQ, GT, LT, GTQ, LTQ) always
// consume a third, unused byte after their two register operands, so
// they occupy 4 bytes like LOAD and the three-register arithmetic
// opcodes -- convenient for JMPF/JMPB-based control flow. The encoding
// itself is variable width: HLT is 1 byte, and the jumps and ALOC are 2.
//
// The VM is fail-stop: anything it cannot continue past ends execution
// by returning false from Step and recording the cause in LastError.
// There is no recovery and no partial rollback.
package vm

import (
	"ferrovm/internal/diag"
	"ferrovm/pkg/inst"
)

// NumRegisters is the size of the register file.
const NumRegisters = 32

// VM is a single register-machine instance. It is not goroutine safe;
// a single goroutine should own it.
type VM struct {
	registers [NumRegisters]int32
	pc        int
	program   []byte
	remainder uint32
	eqFlag    bool
	lastErr   error
}

// New returns a freshly constructed VM: all registers zero, PC at 0,
// remainder 0, equality flag false, and an empty program buffer.
func New() *VM {
	return &VM{}
}

// AppendByte extends the program buffer by one byte. It never alters
// the program counter.
func (vm *VM) AppendByte(b byte) {
	vm.program = append(vm.program, b)
}

// AppendBytes extends the program buffer. It never alters the program
// counter.
func (vm *VM) AppendBytes(bs []byte) {
	vm.program = append(vm.program, bs...)
}

// Registers returns a snapshot of the register file.
func (vm *VM) Registers() [NumRegisters]int32 {
	return vm.registers
}

// ProgramCounter returns the current program counter.
func (vm *VM) ProgramCounter() int {
	return vm.pc
}

// Remainder returns the result of the most recent DIV.
func (vm *VM) Remainder() uint32 {
	return vm.remainder
}

// EqualityFlag returns the current value of the equality flag.
func (vm *VM) EqualityFlag() bool {
	return vm.eqFlag
}

// LastError returns the structured error from the most recent Step
// that returned false because of a fail-stop condition, or nil if the
// VM has never hit one (including a clean HLT or simply running off
// the end of the program).
func (vm *VM) LastError() error {
	return vm.lastErr
}

// Program returns a copy of the program buffer.
func (vm *VM) Program() []byte {
	out := make([]byte, len(vm.program))
	copy(out, vm.program)
	return out
}

// Run repeatedly calls Step until it returns false.
func (vm *VM) Run() {
	for vm.Step() {
	}
}

// RunOnce performs a single Step invocation. It exists as a distinct
// entry point from Step for callers (the shell, in particular) that
// want to name "execute exactly one instruction" without depending on
// Step's boolean return directly.
func (vm *VM) RunOnce() bool {
	return vm.Step()
}

// Step performs one fetch/decode/execute cycle. It returns true if
// execution should continue, false if a halt or fail-stop condition
// was reached. It is always safe to call: if the program counter is
// already at or past the end of the program, it returns false without
// mutating any state.
func (vm *VM) Step() bool {
	if vm.pc >= len(vm.program) {
		return false
	}

	opByte := vm.program[vm.pc]
	vm.pc++
	op, _ := inst.ByteToOpcode(opByte)

	switch op {
	case inst.HLT:
		return false

	case inst.LOAD:
		a, ok := vm.readRegIndex()
		if !ok {
			return false
		}
		imm, ok := vm.readImm16()
		if !ok {
			return false
		}
		vm.registers[a] = int32(imm) // zero-extended from u16
		return true

	case inst.ADD, inst.SUB, inst.MUL, inst.DIV:
		a, b, c, ok := vm.readRegRegReg()
		if !ok {
			return false
		}
		return vm.execArith(op, a, b, c)

	case inst.JMP:
		a, ok := vm.readRegIndexValue()
		if !ok {
			return false
		}
		return vm.jumpAbsolute(int(a))

	case inst.JMPF:
		a, ok := vm.readRegIndexValue()
		if !ok {
			return false
		}
		return vm.jumpAbsolute(vm.pc + int(a))

	case inst.JMPB:
		a, ok := vm.readRegIndexValue()
		if !ok {
			return false
		}
		target := vm.pc - int(a)
		if target < 0 {
			return vm.halt(&diag.BadProgramCounter{PC: target})
		}
		return vm.jumpAbsolute(target)

	case inst.EQ, inst.NEQ, inst.GT, inst.LT, inst.GTQ, inst.LTQ:
		a, b, ok := vm.readRegReg()
		if !ok {
			return false
		}
		if _, ok := vm.readByte(); !ok { // unused padding byte
			return false
		}
		vm.eqFlag = compare(op, vm.registers[a], vm.registers[b])
		return true

	case inst.JEQ:
		a, ok := vm.readRegIndexValue()
		if !ok {
			return false
		}
		if vm.eqFlag {
			return vm.jumpAbsolute(int(a))
		}
		return true

	case inst.JNEQ:
		a, ok := vm.readRegIndexValue()
		if !ok {
			return false
		}
		if !vm.eqFlag {
			return vm.jumpAbsolute(int(a))
		}
		return true

	case inst.ALOC:
		// Reserved: consume the operand, no runtime effect.
		if _, ok := vm.readRegIndex(); !ok {
			return false
		}
		return true

	default: // inst.Illegal
		return vm.halt(&diag.IllegalOpcode{Byte: opByte})
	}
}

// halt records err as the cause of a fail-stop condition and always
// returns false, so every fail-stop case can end with "return
// vm.halt(...)".
func (vm *VM) halt(err error) bool {
	vm.lastErr = err
	return false
}

// readByte reads one byte at pc and advances pc by one.
func (vm *VM) readByte() (byte, bool) {
	if vm.pc >= len(vm.program) {
		vm.halt(&diag.BadProgramCounter{PC: vm.pc})
		return 0, false
	}
	b := vm.program[vm.pc]
	vm.pc++
	return b, true
}

// readImm16 reads a two-byte big-endian immediate and advances pc by two.
func (vm *VM) readImm16() (uint16, bool) {
	hi, ok := vm.readByte()
	if !ok {
		return 0, false
	}
	lo, ok := vm.readByte()
	if !ok {
		return 0, false
	}
	return uint16(hi)<<8 | uint16(lo), true
}

// readRegIndex reads one register-number byte and validates it against
// the register file size, returning the validated index.
func (vm *VM) readRegIndex() (int, bool) {
	b, ok := vm.readByte()
	if !ok {
		return 0, false
	}
	if int(b) >= NumRegisters {
		vm.halt(&diag.RegisterOutOfRange{Index: int(b)})
		return 0, false
	}
	return int(b), true
}

// readRegIndexValue reads one validated register index and returns the
// (unsigned, for jump arithmetic) value currently held in that register.
func (vm *VM) readRegIndexValue() (uint32, bool) {
	idx, ok := vm.readRegIndex()
	if !ok {
		return 0, false
	}
	return uint32(vm.registers[idx]), true
}

// readRegReg reads two validated register indices.
func (vm *VM) readRegReg() (a, b int, ok bool) {
	a, ok = vm.readRegIndex()
	if !ok {
		return 0, 0, false
	}
	b, ok = vm.readRegIndex()
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}

// readRegRegReg reads three validated register indices.
func (vm *VM) readRegRegReg() (a, b, c int, ok bool) {
	a, b, ok = vm.readRegReg()
	if !ok {
		return 0, 0, 0, false
	}
	c, ok = vm.readRegIndex()
	if !ok {
		return 0, 0, 0, false
	}
	return a, b, c, true
}

// jumpAbsolute sets pc to target; a negative target is a
// BadProgramCounter. A target at or past the end of the program buffer
// is accepted, and the next Step then returns false.
func (vm *VM) jumpAbsolute(target int) bool {
	if target < 0 {
		return vm.halt(&diag.BadProgramCounter{PC: target})
	}
	vm.pc = target
	return true
}

// execArith performs the effect of ADD/SUB/MUL/DIV once operands have
// been decoded and register-range checked.
func (vm *VM) execArith(op inst.Opcode, a, b, c int) bool {
	lhs, rhs := vm.registers[a], vm.registers[b]
	switch op {
	case inst.ADD:
		vm.registers[c] = lhs + rhs
	case inst.SUB:
		vm.registers[c] = lhs - rhs
	case inst.MUL:
		vm.registers[c] = lhs * rhs
	case inst.DIV:
		if rhs == 0 {
			return vm.halt(&diag.DivideByZero{})
		}
		vm.registers[c] = lhs / rhs
		vm.remainder = uint32(lhs % rhs)
	}
	return true
}

// compare evaluates one of the six comparison opcodes.
func compare(op inst.Opcode, a, b int32) bool {
	switch op {
	case inst.EQ:
		return a == b
	case inst.NEQ:
		return a != b
	case inst.GT:
		return a > b
	case inst.LT:
		return a < b
	case inst.GTQ:
		return a >= b
	case inst.LTQ:
		return a <= b
	}
	return false
}
