// Package shell implements the interactive REPL: it dispatches
// "."-prefixed built-in commands and treats anything else as one line
// of assembly source to assemble and execute immediately.
//
// The shell only depends on the two narrow collaborator interfaces
// below, never on concrete *asm.Program or *vm.VM types, so it can be
// tested against fakes without spinning up the real assembler/VM pair.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Assembler is the narrow surface the shell needs from pkg/asm.
type Assembler interface {
	Assemble(r io.Reader) (Bytes, error)
}

// Bytes is anything that can produce the wire bytes of an assembled
// program; *asm.Program satisfies this via its Bytes method.
type Bytes interface {
	Bytes() ([]byte, error)
}

// Machine is the narrow surface the shell needs from pkg/vm.
type Machine interface {
	AppendBytes(bs []byte)
	RunOnce() bool
	LastError() error
	Registers() [32]int32
	Program() []byte
}

// Shell holds the REPL's own state: its line history and the I/O
// streams it reads from / writes to. It does not own the VM or
// assembler; those are injected so cmd/ferrovm can wire up the real
// implementations while tests wire up fakes.
type Shell struct {
	Asm     Assembler
	VM      Machine
	In      io.Reader
	Out     io.Writer
	history []string
}

// New returns a Shell ready to Run.
func New(asmImpl Assembler, vmImpl Machine, in io.Reader, out io.Writer) *Shell {
	return &Shell{Asm: asmImpl, VM: vmImpl, In: in, Out: out}
}

// quitError is returned by dispatch (and so short-circuits Run) when
// the user issued .quit. It is not a failure: Run translates it into a
// clean exit.
type quitError struct{}

func (quitError) Error() string { return "quit" }

// History returns the lines entered so far, oldest first.
func (s *Shell) History() []string {
	return s.history
}

// Run reads lines from s.In until EOF or .quit, printing prompts and
// diagnostics to s.Out. It returns the process exit code, which is 0
// on both .quit and EOF; an error from a line is printed and the loop
// continues.
func (s *Shell) Run() int {
	scanner := bufio.NewScanner(s.In)
	for {
		fmt.Fprint(s.Out, "ferrovm> ")
		if !scanner.Scan() {
			return 0
		}
		if err := s.Eval(scanner.Text()); err != nil {
			if _, isQuit := err.(quitError); isQuit {
				return 0
			}
			fmt.Fprintf(s.Out, "%s\n", err)
		}
	}
}

// Eval executes a single line: a built-in command, or one line of
// assembly source. It records the line in history before dispatch, so
// a line that fails to parse or execute still shows up in .history.
func (s *Shell) Eval(line string) error {
	s.history = append(s.history, line)

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, ".") {
		return s.dispatch(trimmed)
	}
	return s.assembleAndStep(trimmed)
}

func (s *Shell) dispatch(cmd string) error {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ".quit":
		return quitError{}
	case ".history":
		for i, l := range s.history {
			fmt.Fprintf(s.Out, "%d: %s\n", i, l)
		}
		return nil
	case ".program":
		fmt.Fprintf(s.Out, "%X\n", s.VM.Program())
		return nil
	case ".register":
		regs := s.VM.Registers()
		for i, r := range regs {
			fmt.Fprintf(s.Out, "$%d = %d\n", i, r)
		}
		return nil
	case ".load_file":
		if len(fields) < 2 {
			return fmt.Errorf("usage: .load_file <path>")
		}
		return s.loadFile(fields[1])
	case ".clear":
		s.history = nil
		return nil
	default:
		return fmt.Errorf("unknown command: %s", fields[0])
	}
}

func (s *Shell) loadFile(path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	program, err := s.Asm.Assemble(fp)
	if err != nil {
		return err
	}
	bs, err := program.Bytes()
	if err != nil {
		return err
	}
	s.VM.AppendBytes(bs)
	return nil
}

// assembleAndStep assembles one line of source as a single-instruction
// program, appends its bytes, and steps the VM once.
func (s *Shell) assembleAndStep(line string) error {
	program, err := s.Asm.Assemble(strings.NewReader(line))
	if err != nil {
		return err
	}
	bs, err := program.Bytes()
	if err != nil {
		return err
	}
	s.VM.AppendBytes(bs)
	if !s.VM.RunOnce() {
		if err := s.VM.LastError(); err != nil {
			return err
		}
	}
	return nil
}
