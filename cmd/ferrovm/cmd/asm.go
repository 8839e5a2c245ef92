package cmd

import (
	"fmt"
	"os"

	"ferrovm/pkg/asm"

	"github.com/spf13/cobra"
)

var asmOut string

var asmCmd = &cobra.Command{
	Use:     "asm <file.asm>",
	GroupID: "vm",
	Short:   "Assemble a source file into a bytecode file",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fp, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fp.Close()

		program, err := asm.Assemble(fp)
		if err != nil {
			return fmt.Errorf("assemble: %w", err)
		}
		bytes, err := program.Bytes()
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}

		if asmOut == "" {
			asmOut = args[0] + ".bin"
		}
		if err := os.WriteFile(asmOut, bytes, 0o644); err != nil {
			return err
		}
		cmd.Printf("wrote %d bytes to %s\n", len(bytes), asmOut)
		return nil
	},
}

func init() {
	asmCmd.Flags().StringVarP(&asmOut, "out", "o", "", "output bytecode file (default: <input>.bin)")
}
