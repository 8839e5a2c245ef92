package cmd

import (
	"io"
	"os"

	"ferrovm/internal/shell"
	"ferrovm/pkg/asm"
	"ferrovm/pkg/vm"

	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:     "repl",
	GroupID: "vm",
	Short:   "Start the interactive shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		machine := vm.New()
		sh := shell.New(assemblerAdapter{}, machineAdapter{machine}, os.Stdin, cmd.OutOrStdout())
		sh.Run()
		return nil
	},
}

// assemblerAdapter satisfies shell.Assembler by delegating to the
// package-level asm.Assemble function.
type assemblerAdapter struct{}

func (assemblerAdapter) Assemble(r io.Reader) (shell.Bytes, error) {
	return asm.Assemble(r)
}

// machineAdapter satisfies shell.Machine; it exists only because *vm.VM
// predates shell.Machine and we prefer not to import internal/shell's
// interface back into pkg/vm, keeping pkg/vm free of the shell's
// vocabulary.
type machineAdapter struct {
	*vm.VM
}
