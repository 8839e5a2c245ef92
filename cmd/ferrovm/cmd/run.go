package cmd

import (
	"os"

	"ferrovm/pkg/vm"

	"github.com/spf13/cobra"
)

var runVerbose bool

var runCmd = &cobra.Command{
	Use:     "run <program.bin>",
	GroupID: "vm",
	Short:   "Run an assembled bytecode file to completion",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bytes, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		machine := vm.New()
		machine.AppendBytes(bytes)
		machine.Run()

		if runVerbose {
			cmd.Printf("pc=%d eq=%t remainder=%d\n",
				machine.ProgramCounter(), machine.EqualityFlag(), machine.Remainder())
		}
		if err := machine.LastError(); err != nil {
			return err
		}

		regs := machine.Registers()
		for i, r := range regs {
			cmd.Printf("$%d = %d\n", i, r)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "print VM state after execution")
}
